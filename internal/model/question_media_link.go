package model

import (
	"time"
)

// MediaSlot identifies which of the five media positions of a question a link
// fills. PJM slots hold sign-language clips for the stem and each answer.
type MediaSlot string

const (
	SlotMain        MediaSlot = "main"
	SlotPJMQuestion MediaSlot = "pjm_question"
	SlotPJMAnswerA  MediaSlot = "pjm_answer_a"
	SlotPJMAnswerB  MediaSlot = "pjm_answer_b"
	SlotPJMAnswerC  MediaSlot = "pjm_answer_c"
)

type LinkStatus string

const (
	LinkPending  LinkStatus = "pending"
	LinkAttached LinkStatus = "attached"
	LinkMissing  LinkStatus = "missing"
)

type QuestionMediaLink struct {
	ID             uint        `gorm:"primarykey" json:"id"`
	QuestionID     uint        `json:"question_id" gorm:"not null;uniqueIndex:idx_question_media_links_slot"`
	MediaAssetID   *uint       `json:"media_asset_id,omitempty" gorm:"index"`
	MediaAsset     *MediaAsset `json:"media_asset,omitempty" gorm:"foreignKey:MediaAssetID"`
	Slot           MediaSlot   `json:"slot" gorm:"not null;uniqueIndex:idx_question_media_links_slot"`
	SourceFilename string      `json:"source_filename" gorm:"not null;index"`
	Status         LinkStatus  `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// MediaSlots lists every slot in column order of the source sheet.
var MediaSlots = []MediaSlot{SlotMain, SlotPJMQuestion, SlotPJMAnswerA, SlotPJMAnswerB, SlotPJMAnswerC}
