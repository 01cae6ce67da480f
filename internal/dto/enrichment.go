package dto

import (
	"encoding/json"
	"time"
)

type EnrichRecordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type EnrichSegmentResponse struct {
	Scheduled int `json:"scheduled"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type JobResponseDTO struct {
	ID            uint            `json:"id"`
	CrmRecordID   uint            `json:"crm_record_id"`
	Status        string          `json:"status"`
	URLs          []string        `json:"urls,omitempty"`
	StatusMessage string          `json:"status_message,omitempty"`
	PollCount     int             `json:"poll_count"`
	Result        json.RawMessage `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
