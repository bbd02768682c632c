package model

import (
	"time"
)

// LicenseCategory is a driving license category (A, B, C1, D...). Unknown
// codes found during import are auto-created.
type LicenseCategory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Code      string    `json:"code" gorm:"not null;uniqueIndex"`
	Name      string    `json:"name"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
