package models

import (
	"time"

	"gorm.io/datatypes"
)

// CrmRecord is the local mirror of one company or person pulled from the CRM
// provider. RawData keeps the provider's original payload so enrichment can
// dig hints (domains, linkedin URLs) out of it without another API call.
type CrmRecord struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	UserID           uint   `gorm:"not null;index;index:idx_records_user_type"`
	IntegrationID    uint   `gorm:"not null;index;index:idx_records_external,unique"`
	ExternalID       string `gorm:"type:varchar(255);not null;index:idx_records_external,unique"`
	RecordType       string `gorm:"type:varchar(20);not null;index:idx_records_user_type"`
	Name             string `gorm:"type:varchar(255);not null"`
	Email            string `gorm:"type:varchar(255)"`
	RawData          datatypes.JSON `gorm:"type:jsonb"`
	EnrichmentStatus string         `gorm:"type:varchar(20);not null;default:'none';index"`
	EnrichedData     datatypes.JSON `gorm:"type:jsonb"`
	EnrichedAt       *time.Time
	ListMemberships  datatypes.JSON `gorm:"type:jsonb"`
	LastSyncedAt     time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ListMembership is one element of CrmRecord.ListMemberships.
type ListMembership struct {
	ListID   string `json:"listId"`
	ListName string `json:"listName"`
	EntryID  string `json:"entryId"`
}
