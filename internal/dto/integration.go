package dto

import (
	"encoding/json"
	"time"
)

type ConnectIntegrationDTO struct {
	Provider    string `json:"provider" validate:"required"`
	APIKey      string `json:"api_key" validate:"required"`
	DisplayName string `json:"display_name"`
}

type ConnectIntegrationResponse struct {
	Success       bool   `json:"success"`
	WorkspaceName string `json:"workspace_name,omitempty"`
	Error         string `json:"error,omitempty"`
}

// IntegrationResponseDTO never carries the API key.
type IntegrationResponseDTO struct {
	ID           uint            `json:"id"`
	Provider     string          `json:"provider"`
	DisplayName  string          `json:"display_name"`
	Status       string          `json:"status"`
	LastSyncedAt *time.Time      `json:"last_synced_at,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
