package model

import (
	"time"
)

type QuestionTranslation struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_question_translations_locale"`
	Locale     string    `json:"locale" gorm:"not null;size:5;uniqueIndex:idx_question_translations_locale"`
	Stem       string    `json:"stem" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
