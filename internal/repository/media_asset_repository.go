package repository

import (
	"errors"

	"github.com/mstolarczyk/Goshawk/internal/model"
	"gorm.io/gorm"
)

type MediaAssetRepository interface {
	// Both methods accept a transaction handle; nil means the root
	// connection. Import rows pass their own transaction so asset writes
	// roll back with the row.
	FindBySource(tx *gorm.DB, kind model.MediaKind, sourceFilename string) (*model.MediaAsset, error)
	Save(tx *gorm.DB, asset *model.MediaAsset) error
}

type mediaAssetRepository struct {
	db *gorm.DB
}

func NewMediaAssetRepository(db *gorm.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

func (r *mediaAssetRepository) FindBySource(tx *gorm.DB, kind model.MediaKind, sourceFilename string) (*model.MediaAsset, error) {
	if tx == nil {
		tx = r.db
	}
	var asset model.MediaAsset
	err := tx.Where("kind = ? AND source_filename = ?", kind, sourceFilename).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *mediaAssetRepository) Save(tx *gorm.DB, asset *model.MediaAsset) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(asset).Error
}
