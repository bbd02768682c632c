package model

import (
	"time"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

type ProcessingStatus string

const (
	ProcessingPending  ProcessingStatus = "pending"
	ProcessingAttached ProcessingStatus = "attached"
	ProcessingMissing  ProcessingStatus = "missing"
	ProcessingFailed   ProcessingStatus = "failed"
)

// MediaAsset is the metadata of one physical media file. Assets are shared:
// several questions/slots referencing the same source filename reuse one row.
type MediaAsset struct {
	ID                 uint             `gorm:"primarykey" json:"id"`
	Kind               MediaKind        `json:"kind" gorm:"not null"`
	SourceFilename     string           `json:"source_filename" gorm:"not null;index"`
	NormalizedFilename string           `json:"normalized_filename" gorm:"index"`
	StoragePath        string           `json:"storage_path,omitempty"`
	ChecksumSHA256     string           `json:"checksum_sha256,omitempty" gorm:"index"`
	ContentType        string           `json:"content_type,omitempty"`
	ByteSize           *int64           `json:"byte_size,omitempty"`
	DurationMs         *int             `json:"duration_ms,omitempty"`
	Width              *int             `json:"width,omitempty"`
	Height             *int             `json:"height,omitempty"`
	ProcessingStatus   ProcessingStatus `json:"processing_status" gorm:"not null;default:'pending'"`
	Metadata           JSONMap          `json:"metadata" gorm:"type:text"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Attached reports whether a physical file has been recorded for the asset.
func (a *MediaAsset) Attached() bool {
	return a.ProcessingStatus == ProcessingAttached && a.StoragePath != ""
}
