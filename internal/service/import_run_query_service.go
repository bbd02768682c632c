package service

import (
	"github.com/jinzhu/copier"
	"github.com/mstolarczyk/Goshawk/internal/dto"
	"github.com/mstolarczyk/Goshawk/internal/repository"
	"github.com/rs/zerolog/log"
)

// ImportRunQueryService exposes the audit trail of past imports.
type ImportRunQueryService interface {
	ListRuns(limit int) ([]dto.ImportRunResponse, error)
	GetRun(id uint) (*dto.ImportRunResponse, error)
}

type importRunQueryService struct {
	runRepo repository.ImportRunRepository
}

func NewImportRunQueryService(runRepo repository.ImportRunRepository) ImportRunQueryService {
	return &importRunQueryService{runRepo: runRepo}
}

func (s *importRunQueryService) ListRuns(limit int) ([]dto.ImportRunResponse, error) {
	runs, err := s.runRepo.FindAll(limit)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ImportRunResponse, 0, len(runs))
	for i := range runs {
		var resp dto.ImportRunResponse
		if err := copier.Copy(&resp, &runs[i]); err != nil {
			log.Error().Err(err).Msg("Failed to copy ImportRun to response DTO")
			return nil, err
		}
		resp.Issues = nil // issue payloads only on the detail endpoint
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *importRunQueryService) GetRun(id uint) (*dto.ImportRunResponse, error) {
	run, err := s.runRepo.FindByIDWithIssues(id)
	if err != nil {
		return nil, err
	}
	var resp dto.ImportRunResponse
	if err := copier.Copy(&resp, run); err != nil {
		log.Error().Err(err).Msg("Failed to copy ImportRun to response DTO")
		return nil, err
	}
	return &resp, nil
}
