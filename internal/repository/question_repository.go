package repository

import (
	"github.com/mstolarczyk/Goshawk/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByBank(bankID uint) ([]model.Question, error)
	FindByBankWithDetails(bankID uint) ([]model.Question, error)
	FindByIDWithDetails(id uint) (*model.Question, error)
	CountByBank(bankID uint) (int64, error)
	// DeleteForBank removes every question of a bank together with its owned
	// children. Child deletes are explicit rather than relying on database
	// cascades so the operation behaves identically on every driver.
	DeleteForBank(tx *gorm.DB, bankID uint) error
	// DeleteChildren clears translations, options (with their translations),
	// category links and media links of one question.
	DeleteChildren(tx *gorm.DB, questionID uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByBank(bankID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("question_bank_id = ?", bankID).Order("official_number asc").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByBankWithDetails(bankID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("Translations").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.position ASC")
		}).
		Preload("Options.Translations").
		Preload("Categories.LicenseCategory").
		Preload("MediaLinks.MediaAsset").
		Where("question_bank_id = ?", bankID).
		Order("official_number asc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByIDWithDetails(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.
		Preload("Translations").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.position ASC")
		}).
		Preload("Options.Translations").
		Preload("Categories.LicenseCategory").
		Preload("MediaLinks.MediaAsset").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) CountByBank(bankID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("question_bank_id = ?", bankID).Count(&count).Error
	return count, err
}

func (r *questionRepository) DeleteForBank(tx *gorm.DB, bankID uint) error {
	var ids []uint
	if err := tx.Model(&model.Question{}).Where("question_bank_id = ?", bankID).Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.DeleteChildren(tx, id); err != nil {
			return err
		}
	}
	return tx.Where("question_bank_id = ?", bankID).Delete(&model.Question{}).Error
}

func (r *questionRepository) DeleteChildren(tx *gorm.DB, questionID uint) error {
	if err := tx.Where("question_id = ?", questionID).Delete(&model.QuestionTranslation{}).Error; err != nil {
		return err
	}

	var optionIDs []uint
	if err := tx.Model(&model.QuestionOption{}).Where("question_id = ?", questionID).Pluck("id", &optionIDs).Error; err != nil {
		return err
	}
	if len(optionIDs) > 0 {
		if err := tx.Where("question_option_id IN ?", optionIDs).Delete(&model.QuestionOptionTranslation{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("question_id = ?", questionID).Delete(&model.QuestionOption{}).Error; err != nil {
		return err
	}

	if err := tx.Where("question_id = ?", questionID).Delete(&model.QuestionCategory{}).Error; err != nil {
		return err
	}
	return tx.Where("question_id = ?", questionID).Delete(&model.QuestionMediaLink{}).Error
}
