package repository

import (
	"github.com/mstolarczyk/Goshawk/internal/model"
	"gorm.io/gorm"
)

type ExamAttemptRepository interface {
	ExistsForBank(bankID uint) (bool, error)
}

type examAttemptRepository struct {
	db *gorm.DB
}

func NewExamAttemptRepository(db *gorm.DB) ExamAttemptRepository {
	return &examAttemptRepository{db: db}
}

func (r *examAttemptRepository) ExistsForBank(bankID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ExamAttempt{}).Where("question_bank_id = ?", bankID).Count(&count).Error
	return count > 0, err
}
