package model

import (
	"time"
)

// QuestionBank is one imported edition of the official question set. At most
// one bank is active at a time; activating a bank deactivates every other one.
type QuestionBank struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	Identifier     string     `json:"identifier" gorm:"not null;uniqueIndex"`
	SourceFilename string     `json:"source_filename"`
	SourceChecksum string     `json:"source_checksum"`
	PublishedOn    *time.Time `json:"published_on,omitempty"`
	ImportedAt     *time.Time `json:"imported_at,omitempty"`
	Active         bool       `json:"active" gorm:"not null;default:false"`
	Notes          string     `json:"notes,omitempty" gorm:"type:text"`
	Questions      []Question `json:"questions,omitempty" gorm:"foreignKey:QuestionBankID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
