package dto

import "time"

type SegmentCreateDTO struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	RecordType  string `json:"record_type" validate:"required,oneof=company person mixed"`
}

type SegmentUpdateDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type SegmentFromListDTO struct {
	ListID   string `json:"list_id" validate:"required"`
	ListName string `json:"list_name" validate:"required"`
}

type SegmentMembersDTO struct {
	CrmRecordIDs []uint `json:"crm_record_ids" validate:"required,min=1"`
}

type SegmentResponseDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	RecordType  string    `json:"record_type"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SegmentFromListResponse struct {
	SegmentID   uint `json:"segment_id"`
	MemberCount int  `json:"member_count"`
}

type MembersChangedResponse struct {
	Added int `json:"added"`
}
