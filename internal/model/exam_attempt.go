package model

import (
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptExpired    AttemptStatus = "expired"
)

// ExamAttempt belongs to the exam-taking flow, which lives outside this
// service. The importer only ever checks for its existence: a bank with
// linked attempts must never be replaced in place.
type ExamAttempt struct {
	ID                uint          `gorm:"primarykey" json:"id"`
	QuestionBankID    uint          `json:"question_bank_id" gorm:"not null;index"`
	LicenseCategoryID *uint         `json:"license_category_id,omitempty" gorm:"index"`
	Locale            string        `json:"locale" gorm:"not null;size:5;default:'pl'"`
	Status            AttemptStatus `json:"status" gorm:"not null;default:'in_progress';index"`
	StartedAt         time.Time     `json:"started_at" gorm:"not null"`
	DeadlineAt        time.Time     `json:"deadline_at" gorm:"not null"`
	SubmittedAt       *time.Time    `json:"submitted_at,omitempty"`
	Score             *int          `json:"score,omitempty"`
	MaxScore          int           `json:"max_score" gorm:"not null;default:74"`
	Passed            *bool         `json:"passed,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
