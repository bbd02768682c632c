package model

import (
	"time"
)

type QuestionOptionTranslation struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	QuestionOptionID uint      `json:"question_option_id" gorm:"not null;uniqueIndex:idx_question_option_translations_locale"`
	Locale           string    `json:"locale" gorm:"not null;size:5;uniqueIndex:idx_question_option_translations_locale"`
	Text             string    `json:"text" gorm:"type:text;not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
