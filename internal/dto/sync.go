package dto

type SyncResponse struct {
	Success     bool   `json:"success"`
	TotalSynced int    `json:"total_synced"`
	Error       string `json:"error,omitempty"`
}

type ListResponseDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	APISlug      string `json:"api_slug,omitempty"`
	ParentObject string `json:"parent_object,omitempty"`
}

type SyncListDTO struct {
	ListID      string `json:"list_id" validate:"required"`
	ListName    string `json:"list_name" validate:"required"`
	ListAPISlug string `json:"list_api_slug"`
}
