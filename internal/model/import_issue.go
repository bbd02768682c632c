package model

import (
	"time"
)

type IssueSeverity string

const (
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)

// Machine-readable issue codes written by the importer and repairer.
const (
	IssueRowImportFailed               = "row_import_failed"
	IssueMediaFileMissing              = "media_file_missing"
	IssueMediaFileAmbiguous            = "media_file_ambiguous"
	IssueMediaFileNormalizedMatch      = "media_file_normalized_match"
	IssueMixedAnswerFormat             = "mixed_answer_format"
	IssueMissingCategories             = "missing_categories"
	IssueSingleChoiceMissingOptionText = "single_choice_missing_option_text"
	IssueMediaAssetPersistFailed       = "media_asset_persist_failed"
	IssueImportAborted                 = "import_aborted"
)

// ImportIssue is one append-only audit record of a run. RowNumber is nil for
// run-level issues.
type ImportIssue struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	ImportRunID uint          `json:"import_run_id" gorm:"not null;index"`
	Severity    IssueSeverity `json:"severity" gorm:"not null;index"`
	RowNumber   *int          `json:"row_number,omitempty"`
	Code        string        `json:"code" gorm:"not null;index"`
	Message     string        `json:"message" gorm:"type:text;not null"`
	Context     JSONMap       `json:"context" gorm:"type:text"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
