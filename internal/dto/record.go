package dto

import (
	"encoding/json"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/models"
)

type RecordResponseDTO struct {
	ID               uint                    `json:"id"`
	IntegrationID    uint                    `json:"integration_id"`
	ExternalID       string                  `json:"external_id"`
	RecordType       string                  `json:"record_type"`
	Name             string                  `json:"name"`
	Email            string                  `json:"email,omitempty"`
	EnrichmentStatus string                  `json:"enrichment_status"`
	EnrichedData     json.RawMessage         `json:"enriched_data,omitempty"`
	EnrichedAt       *time.Time              `json:"enriched_at,omitempty"`
	ListMemberships  []models.ListMembership `json:"list_memberships,omitempty"`
	LastSyncedAt     time.Time               `json:"last_synced_at"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// FromRecord flattens a stored record for API responses. RawData is
// deliberately omitted: provider payloads are large and internal.
func FromRecord(r *models.CrmRecord) RecordResponseDTO {
	out := RecordResponseDTO{
		ID:               r.ID,
		IntegrationID:    r.IntegrationID,
		ExternalID:       r.ExternalID,
		RecordType:       r.RecordType,
		Name:             r.Name,
		Email:            r.Email,
		EnrichmentStatus: r.EnrichmentStatus,
		EnrichedData:     json.RawMessage(r.EnrichedData),
		EnrichedAt:       r.EnrichedAt,
		LastSyncedAt:     r.LastSyncedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if len(r.ListMemberships) > 0 {
		_ = json.Unmarshal(r.ListMemberships, &out.ListMemberships)
	}
	return out
}
