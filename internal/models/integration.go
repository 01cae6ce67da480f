package models

import (
	"time"

	"gorm.io/datatypes"
)

type Integration struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	UserID       uint   `gorm:"not null;index;index:idx_integrations_user_provider,unique"`
	Provider     string `gorm:"type:varchar(64);not null;index:idx_integrations_user_provider,unique"`
	DisplayName  string `gorm:"type:varchar(255);not null"`
	APIKey       string `gorm:"type:text;not null"`
	Status       string `gorm:"type:varchar(50);not null;default:'connected'"`
	LastSyncedAt *time.Time
	LastError    string         `gorm:"type:text"`
	Metadata     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
