package user

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/gin-gonic/gin"
)

// RepoInterface defines the contract for user persistence.
type RepoInterface interface {
	GetByToken(ctx context.Context, tokenIdentifier string) (*models.User, error)
	Upsert(ctx context.Context, u *models.User) error
}

// ServiceInterface defines the caller-facing user operations.
type ServiceInterface interface {
	Upsert(ctx context.Context, tokenIdentifier string, req *dto.UserUpsertDTO) (*dto.UserResponseDTO, error)
	Current(ctx context.Context, u *models.User) *dto.UserResponseDTO
}

// HandlerInterface defines the contract for HTTP request handlers.
type HandlerInterface interface {
	Upsert(c *gin.Context)
	Me(c *gin.Context)
}
