package model

import (
	"time"
)

// QuestionOption is one of the three fixed answers (A/B/C) of a single-choice
// question. Yes/no questions carry no options.
type QuestionOption struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_question_options_key;uniqueIndex:idx_question_options_position"`
	Key        string `json:"key" gorm:"not null;size:1;uniqueIndex:idx_question_options_key"`
	Position   int    `json:"position" gorm:"not null;uniqueIndex:idx_question_options_position"`

	Translations []QuestionOptionTranslation `json:"translations,omitempty" gorm:"foreignKey:QuestionOptionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *QuestionOption) TranslationFor(locale string) *QuestionOptionTranslation {
	var polish *QuestionOptionTranslation
	for i := range o.Translations {
		t := &o.Translations[i]
		if t.Locale == locale {
			return t
		}
		if t.Locale == "pl" {
			polish = t
		}
	}
	if polish != nil {
		return polish
	}
	if len(o.Translations) > 0 {
		return &o.Translations[0]
	}
	return nil
}
