package service

import (
	"github.com/mstolarczyk/Goshawk/internal/media"
	"github.com/mstolarczyk/Goshawk/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type RepairRequest struct {
	MediaRoot string
	// DryRun only counts what would change; nothing is written.
	DryRun bool
	// Limit caps how many missing links are examined; zero means all.
	Limit int
}

type RepairResult struct {
	Processed       int `json:"processed"`
	Repaired        int `json:"repaired"`
	AlreadyAttached int `json:"already_attached"`
	Unresolved      int `json:"unresolved"`
	Ambiguous       int `json:"ambiguous"`
	Errors          int `json:"errors"`
}

// MediaRepairService re-resolves media links that stayed missing after an
// import, typically after more files were dropped into the media directory.
type MediaRepairService interface {
	Repair(req RepairRequest) (*RepairResult, error)
}

type mediaRepairService struct {
	db *gorm.DB
}

func NewMediaRepairService(db *gorm.DB) MediaRepairService {
	return &mediaRepairService{db: db}
}

func (s *mediaRepairService) Repair(req RepairRequest) (*RepairResult, error) {
	resolver, err := media.NewResolver(req.MediaRoot)
	if err != nil {
		return nil, err
	}

	query := s.db.Preload("MediaAsset").
		Where("status = ?", model.LinkMissing).
		Order("id asc")
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}
	var links []model.QuestionMediaLink
	if err := query.Find(&links).Error; err != nil {
		return nil, err
	}

	result := &RepairResult{}
	for i := range links {
		link := &links[i]
		result.Processed++

		resolution := resolver.Resolve(link.SourceFilename)
		switch resolution.Status {
		case media.StatusMissing:
			result.Unresolved++
			continue
		case media.StatusAmbiguous:
			result.Ambiguous++
			continue
		}

		if link.MediaAsset != nil && link.MediaAsset.Attached() {
			result.AlreadyAttached++
			if req.DryRun {
				continue
			}
			if err := s.db.Model(link).Update("status", model.LinkAttached).Error; err != nil {
				result.AlreadyAttached--
				result.Errors++
			}
			continue
		}

		result.Repaired++
		if req.DryRun {
			continue
		}
		if err := s.repairLink(link, resolution.Path); err != nil {
			log.Error().Err(err).Uint("linkID", link.ID).Str("source", link.SourceFilename).Msg("Media link repair failed")
			result.Repaired--
			result.Errors++
		}
	}
	return result, nil
}

func (s *mediaRepairService) repairLink(link *model.QuestionMediaLink, resolvedPath string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		asset := link.MediaAsset
		if asset == nil {
			asset = &model.MediaAsset{
				Kind:               media.KindForFilename(link.SourceFilename),
				SourceFilename:     link.SourceFilename,
				NormalizedFilename: media.Normalize(link.SourceFilename),
				Metadata:           model.JSONMap{},
			}
		}

		if err := attachMediaFile(asset, resolvedPath, link.SourceFilename); err != nil {
			return err
		}
		asset.ProcessingStatus = model.ProcessingAttached
		if err := tx.Save(asset).Error; err != nil {
			return err
		}

		link.MediaAssetID = &asset.ID
		link.Status = model.LinkAttached
		return tx.Save(link).Error
	})
}
