package model

import "time"

const (
	ExtractionStatusSuccess = "success"
	ExtractionStatusError   = "error"
)

// ExtractionLog records the outcome of one tenant's extraction within a
// run. Append-only: rows are never updated or deleted.
type ExtractionLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	RunID         int64     `gorm:"index"` // snowflake id shared by all entries of one run
	TenantID      string    `gorm:"size:255;index"`
	DateExtracted string    `gorm:"size:10"` // last day of the extracted range
	EventsCount   int       `gorm:"not null"`
	StartedAt     time.Time ``
	CompletedAt   time.Time `gorm:"autoCreateTime;index"`
	Status        string    `gorm:"size:50;default:success"`
	ErrorMessage  *string   `gorm:"type:text"`
}

func (ExtractionLog) TableName() string {
	return "extraction_log"
}
