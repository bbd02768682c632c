package model

import (
	"time"
)

type ImportStatus string

const (
	ImportRunning               ImportStatus = "running"
	ImportCompleted             ImportStatus = "completed"
	ImportCompletedWithWarnings ImportStatus = "completed_with_warnings"
	ImportFailed                ImportStatus = "failed"
)

// ImportRun is the audit header of one importer invocation. It is opened in
// running state before any entity write and finalized exactly once.
type ImportRun struct {
	ID             uint          `gorm:"primarykey" json:"id"`
	QuestionBankID *uint         `json:"question_bank_id,omitempty" gorm:"index"`
	SourceFilename string        `json:"source_filename" gorm:"not null"`
	SourceChecksum string        `json:"source_checksum"`
	Status         ImportStatus  `json:"status" gorm:"not null;default:'running';index"`
	StartedAt      time.Time     `json:"started_at" gorm:"not null;index"`
	FinishedAt     *time.Time    `json:"finished_at,omitempty"`
	TotalRows      int           `json:"total_rows" gorm:"not null;default:0"`
	ImportedRows   int           `json:"imported_rows" gorm:"not null;default:0"`
	SkippedRows    int           `json:"skipped_rows" gorm:"not null;default:0"`
	WarningCount   int           `json:"warning_count" gorm:"not null;default:0"`
	ErrorCount     int           `json:"error_count" gorm:"not null;default:0"`
	Summary        string        `json:"summary,omitempty" gorm:"type:text"`
	Issues         []ImportIssue `json:"issues,omitempty" gorm:"foreignKey:ImportRunID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
