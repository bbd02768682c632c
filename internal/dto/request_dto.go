package dto

// ImportStartDTO triggers a question bank import. Paths are server-side: the
// sheet and media files are delivered out of band (rsync, mounted volume),
// the API only points the importer at them.
type ImportStartDTO struct {
	XlsxPath        string  `json:"xlsx_path" binding:"required"`
	MediaRoot       string  `json:"media_root" binding:"required"`
	Identifier      string  `json:"identifier" binding:"required"`
	PublishedOn     *string `json:"published_on,omitempty"` // YYYY-MM-DD
	ReplaceExisting *bool   `json:"replace_existing,omitempty"`
	Activate        *bool   `json:"activate,omitempty"`
}

type MediaRepairDTO struct {
	MediaRoot string `json:"media_root" binding:"required"`
	DryRun    *bool  `json:"dry_run,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}
