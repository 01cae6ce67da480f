package sync

import (
	"context"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/crm"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/gin-gonic/gin"
)

// IntegrationRepoInterface is the slice of integration persistence syncing
// needs.
type IntegrationRepoInterface interface {
	Get(ctx context.Context, id uint) (*models.Integration, error)
	MarkSynced(ctx context.Context, id uint, at time.Time) error
	MarkSyncError(ctx context.Context, id uint, errMsg string) error
}

// RecordWriterInterface is the record persistence surface syncing writes
// through.
type RecordWriterInterface interface {
	Upsert(ctx context.Context, rec *models.CrmRecord) error
	AddListMembership(ctx context.Context, integrationID uint, externalID string, membership models.ListMembership) error
}

// ProviderResolver maps a provider name to a CRM client.
type ProviderResolver func(name string) (crm.Provider, error)

// ServiceInterface defines the sync operations.
type ServiceInterface interface {
	SyncAll(ctx context.Context, userID, integrationID uint) (*dto.SyncResponse, error)
	SyncList(ctx context.Context, userID, integrationID uint, req *dto.SyncListDTO) (*dto.SyncResponse, error)
	AvailableLists(ctx context.Context, userID, integrationID uint) ([]dto.ListResponseDTO, error)
}

// HandlerInterface defines the contract for HTTP request handlers.
type HandlerInterface interface {
	SyncAll(c *gin.Context)
	SyncList(c *gin.Context)
	AvailableLists(c *gin.Context)
}
