package models

import (
	"time"

	"gorm.io/datatypes"
)

// EnrichmentJob is one attempt to enrich a single record. Its lifecycle is
// independent of the record's denormalized enrichmentStatus field.
type EnrichmentJob struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"`
	UserID        uint           `gorm:"not null;index"`
	CrmRecordID   uint           `gorm:"not null;index"`
	Status        string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	URLs          datatypes.JSON `gorm:"type:jsonb"`
	AgentJobID    string         `gorm:"type:varchar(255)"`
	StatusMessage string         `gorm:"type:text"`
	PollCount     int            `gorm:"not null;default:0"`
	Result        datatypes.JSON `gorm:"type:jsonb"`
	Error         string         `gorm:"type:text"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
}
