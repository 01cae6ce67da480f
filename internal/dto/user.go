package dto

import "time"

type UserUpsertDTO struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type UserResponseDTO struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
