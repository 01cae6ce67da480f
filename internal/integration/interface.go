package integration

import (
	"context"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/crm"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/gin-gonic/gin"
)

// RepoInterface defines the contract for integration persistence.
type RepoInterface interface {
	Get(ctx context.Context, id uint) (*models.Integration, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Integration, error)
	Upsert(ctx context.Context, integ *models.Integration) error
	Disconnect(ctx context.Context, id uint) error
	MarkSynced(ctx context.Context, id uint, at time.Time) error
	MarkSyncError(ctx context.Context, id uint, errMsg string) error
}

// ProviderResolver maps a provider name to a CRM client.
type ProviderResolver func(name string) (crm.Provider, error)

// ServiceInterface defines the caller-facing integration operations.
type ServiceInterface interface {
	Connect(ctx context.Context, userID uint, req *dto.ConnectIntegrationDTO) (*dto.ConnectIntegrationResponse, error)
	List(ctx context.Context, userID uint) ([]dto.IntegrationResponseDTO, error)
	Get(ctx context.Context, userID, id uint) (*dto.IntegrationResponseDTO, error)
	Disconnect(ctx context.Context, userID, id uint) error
}

// HandlerInterface defines the contract for HTTP request handlers.
type HandlerInterface interface {
	Connect(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Disconnect(c *gin.Context)
}
