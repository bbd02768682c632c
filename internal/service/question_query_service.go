package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/mstolarczyk/Goshawk/internal/dto"
	"github.com/mstolarczyk/Goshawk/internal/model"
	"github.com/mstolarczyk/Goshawk/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionQueryService is the read side used by the public API: questions of
// the active bank, resolved to one locale.
type QuestionQueryService interface {
	ActiveBankQuestions(locale string) (*dto.BankQuestionsResponse, error)
	GetQuestion(id uint, locale string) (*dto.QuestionResponse, error)
	ListBanks() ([]dto.QuestionBankResponse, error)
}

type questionQueryService struct {
	bankRepo     repository.QuestionBankRepository
	questionRepo repository.QuestionRepository
}

func NewQuestionQueryService(bankRepo repository.QuestionBankRepository, questionRepo repository.QuestionRepository) QuestionQueryService {
	return &questionQueryService{bankRepo: bankRepo, questionRepo: questionRepo}
}

func (s *questionQueryService) ActiveBankQuestions(locale string) (*dto.BankQuestionsResponse, error) {
	if !model.IsLocale(locale) {
		return nil, fmt.Errorf("unsupported locale '%s'", locale)
	}

	bank, err := s.bankRepo.FindActive()
	if err != nil {
		return nil, fmt.Errorf("no active question bank: %w", err)
	}

	questions, err := s.questionRepo.FindByBankWithDetails(bank.ID)
	if err != nil {
		log.Error().Err(err).Uint("bankID", bank.ID).Msg("Failed to load questions for active bank")
		return nil, err
	}

	resp := &dto.BankQuestionsResponse{Locale: locale}
	resp.Bank = bankResponse(bank, int64(len(questions)))
	for i := range questions {
		resp.Questions = append(resp.Questions, questionResponse(&questions[i], locale))
	}
	return resp, nil
}

func (s *questionQueryService) GetQuestion(id uint, locale string) (*dto.QuestionResponse, error) {
	if !model.IsLocale(locale) {
		return nil, fmt.Errorf("unsupported locale '%s'", locale)
	}
	question, err := s.questionRepo.FindByIDWithDetails(id)
	if err != nil {
		return nil, err
	}
	resp := questionResponse(question, locale)
	return &resp, nil
}

func (s *questionQueryService) ListBanks() ([]dto.QuestionBankResponse, error) {
	banks, err := s.bankRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]dto.QuestionBankResponse, 0, len(banks))
	for i := range banks {
		count, err := s.questionRepo.CountByBank(banks[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, bankResponse(&banks[i], count))
	}
	return responses, nil
}

func bankResponse(bank *model.QuestionBank, questionCount int64) dto.QuestionBankResponse {
	var resp dto.QuestionBankResponse
	if err := copier.Copy(&resp, bank); err != nil {
		log.Error().Err(err).Msg("Failed to copy QuestionBank to response DTO")
	}
	resp.QuestionCount = questionCount
	return resp
}

func questionResponse(question *model.Question, locale string) dto.QuestionResponse {
	resp := dto.QuestionResponse{
		ID:             question.ID,
		OfficialNumber: question.OfficialNumber,
		Scope:          string(question.Scope),
		AnswerMode:     string(question.AnswerMode),
		CorrectKey:     question.CorrectKey,
	}
	if translation := question.TranslationFor(locale); translation != nil {
		resp.Stem = translation.Stem
	}
	for i := range question.Options {
		option := &question.Options[i]
		optionResp := dto.QuestionOptionResponse{Key: option.Key, Position: option.Position}
		if translation := option.TranslationFor(locale); translation != nil {
			optionResp.Text = translation.Text
		}
		resp.Options = append(resp.Options, optionResp)
	}
	for i := range question.Categories {
		resp.Categories = append(resp.Categories, question.Categories[i].LicenseCategory.Code)
	}
	for i := range question.MediaLinks {
		link := &question.MediaLinks[i]
		linkResp := dto.QuestionMediaLinkResponse{
			Slot:           string(link.Slot),
			SourceFilename: link.SourceFilename,
			Status:         string(link.Status),
		}
		if link.MediaAsset != nil {
			linkResp.ContentType = link.MediaAsset.ContentType
			linkResp.StoragePath = link.MediaAsset.StoragePath
		}
		resp.MediaLinks = append(resp.MediaLinks, linkResp)
	}
	return resp
}
