package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type QuestionBankResponse struct {
	ID             uint       `json:"id"`
	Identifier     string     `json:"identifier"`
	SourceFilename string     `json:"source_filename"`
	SourceChecksum string     `json:"source_checksum"`
	PublishedOn    *time.Time `json:"published_on,omitempty"`
	ImportedAt     *time.Time `json:"imported_at,omitempty"`
	Active         bool       `json:"active"`
	QuestionCount  int64      `json:"question_count"`
}

type ImportRunResponse struct {
	ID             uint                  `json:"id"`
	QuestionBankID *uint                 `json:"question_bank_id,omitempty"`
	SourceFilename string                `json:"source_filename"`
	SourceChecksum string                `json:"source_checksum"`
	Status         string                `json:"status"`
	StartedAt      time.Time             `json:"started_at"`
	FinishedAt     *time.Time            `json:"finished_at,omitempty"`
	TotalRows      int                   `json:"total_rows"`
	ImportedRows   int                   `json:"imported_rows"`
	SkippedRows    int                   `json:"skipped_rows"`
	WarningCount   int                   `json:"warning_count"`
	ErrorCount     int                   `json:"error_count"`
	Summary        string                `json:"summary,omitempty"`
	Issues         []ImportIssueResponse `json:"issues,omitempty"`
}

type ImportIssueResponse struct {
	ID        uint                   `json:"id"`
	Severity  string                 `json:"severity"`
	RowNumber *int                   `json:"row_number,omitempty"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// QuestionResponse is the locale-resolved view of one question: a single stem
// and option texts for the requested locale (falling back to Polish).
type QuestionResponse struct {
	ID             uint                        `json:"id"`
	OfficialNumber int                         `json:"official_number"`
	Scope          string                      `json:"scope"`
	AnswerMode     string                      `json:"answer_mode"`
	CorrectKey     string                      `json:"correct_key"`
	Stem           string                      `json:"stem"`
	Options        []QuestionOptionResponse    `json:"options,omitempty"`
	Categories     []string                    `json:"categories,omitempty"`
	MediaLinks     []QuestionMediaLinkResponse `json:"media_links,omitempty"`
}

type QuestionOptionResponse struct {
	Key      string `json:"key"`
	Position int    `json:"position"`
	Text     string `json:"text"`
}

type QuestionMediaLinkResponse struct {
	Slot           string `json:"slot"`
	SourceFilename string `json:"source_filename"`
	Status         string `json:"status"`
	ContentType    string `json:"content_type,omitempty"`
	StoragePath    string `json:"storage_path,omitempty"`
}

type BankQuestionsResponse struct {
	Bank      QuestionBankResponse `json:"bank"`
	Locale    string               `json:"locale"`
	Questions []QuestionResponse   `json:"questions"`
}
