package model

import (
	"time"
)

// QuestionCategory joins a question to a license category.
type QuestionCategory struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	QuestionID        uint            `json:"question_id" gorm:"not null;uniqueIndex:idx_question_categories_pair"`
	LicenseCategoryID uint            `json:"license_category_id" gorm:"not null;uniqueIndex:idx_question_categories_pair"`
	LicenseCategory   LicenseCategory `json:"license_category,omitempty" gorm:"foreignKey:LicenseCategoryID"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
