package model

import (
	"time"
)

type QuestionScope string

const (
	ScopeBasic      QuestionScope = "basic"
	ScopeSpecialist QuestionScope = "specialist"
)

type AnswerMode string

const (
	AnswerModeYesNo        AnswerMode = "yes_no"
	AnswerModeSingleChoice AnswerMode = "single_choice"
)

// Question is one official exam question inside a bank, unique by
// (bank, official number). It exclusively owns its translations, options,
// category links and media links; a re-import recreates all of them.
type Question struct {
	ID             uint          `gorm:"primarykey" json:"id"`
	QuestionBankID uint          `json:"question_bank_id" gorm:"not null;uniqueIndex:idx_questions_bank_official"`
	OfficialNumber int           `json:"official_number" gorm:"not null;uniqueIndex:idx_questions_bank_official"`
	SourceLp       *int          `json:"source_lp,omitempty"`
	SourceRow      *int          `json:"source_row,omitempty" gorm:"index"`
	Scope          QuestionScope `json:"scope" gorm:"not null"`
	AnswerMode     AnswerMode    `json:"answer_mode" gorm:"not null"`
	CorrectKey     string        `json:"correct_key" gorm:"not null;size:1"`
	QuestionWeight *int          `json:"question_weight,omitempty"`
	Active         bool          `json:"active" gorm:"not null;default:true"`

	Translations []QuestionTranslation `json:"translations,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Options      []QuestionOption      `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Categories   []QuestionCategory    `json:"categories,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	MediaLinks   []QuestionMediaLink   `json:"media_links,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CorrectKeyMatchesMode reports whether the correct answer key is legal for
// the question's answer mode (yes/no => T/N, single choice => A/B/C).
func (q *Question) CorrectKeyMatchesMode() bool {
	if q.AnswerMode == AnswerModeYesNo {
		return contains(YesNoKeys, q.CorrectKey)
	}
	return contains(SingleChoiceKeys, q.CorrectKey)
}

// TranslationFor returns the translation for locale among the loaded
// associations, falling back to Polish, then to any loaded translation.
func (q *Question) TranslationFor(locale string) *QuestionTranslation {
	var polish *QuestionTranslation
	for i := range q.Translations {
		t := &q.Translations[i]
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
	if len(q.Translations) > 0 {
		return &q.Translations[0]
	}
	return nil
}

func (q *Question) MediaLinkFor(slot MediaSlot) *QuestionMediaLink {
	for i := range q.MediaLinks {
		if q.MediaLinks[i].Slot == slot {
			return &q.MediaLinks[i]
		}
	}
	return nil
}
