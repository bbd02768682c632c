package repository

import (
	"errors"

	"github.com/mstolarczyk/Goshawk/internal/model"
	"gorm.io/gorm"
)

type QuestionBankRepository interface {
	FindByIdentifier(identifier string) (*model.QuestionBank, error)
	FindActive() (*model.QuestionBank, error)
	FindAll() ([]model.QuestionBank, error)
	Save(bank *model.QuestionBank) error
	// DeactivateOthers clears the active flag on every bank except the given
	// one, keeping the one-active-bank invariant.
	DeactivateOthers(bankID uint) error
}

type questionBankRepository struct {
	db *gorm.DB
}

func NewQuestionBankRepository(db *gorm.DB) QuestionBankRepository {
	return &questionBankRepository{db: db}
}

func (r *questionBankRepository) FindByIdentifier(identifier string) (*model.QuestionBank, error) {
	var bank model.QuestionBank
	err := r.db.Where("identifier = ?", identifier).First(&bank).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *questionBankRepository) FindActive() (*model.QuestionBank, error) {
	var bank model.QuestionBank
	if err := r.db.Where("active = ?", true).First(&bank).Error; err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *questionBankRepository) FindAll() ([]model.QuestionBank, error) {
	var banks []model.QuestionBank
	if err := r.db.Order("imported_at desc").Find(&banks).Error; err != nil {
		return nil, err
	}
	return banks, nil
}

func (r *questionBankRepository) Save(bank *model.QuestionBank) error {
	return r.db.Save(bank).Error
}

func (r *questionBankRepository) DeactivateOthers(bankID uint) error {
	return r.db.Model(&model.QuestionBank{}).
		Where("id <> ? AND active = ?", bankID, true).
		Update("active", false).Error
}
