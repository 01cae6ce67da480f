package record

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/gin-gonic/gin"
)

// RepoInterface is the read surface for synced CRM records.
type RepoInterface interface {
	Get(ctx context.Context, id uint) (*models.CrmRecord, error)
	ListByType(ctx context.Context, userID uint, recordType config.RecordType, limit int) ([]models.CrmRecord, error)
	Search(ctx context.Context, userID uint, term string, recordType config.RecordType, limit int) ([]models.CrmRecord, error)
	ListByList(ctx context.Context, userID uint, listID string, limit int) ([]models.CrmRecord, error)
}

// ServiceInterface defines the caller-facing record operations.
type ServiceInterface interface {
	Get(ctx context.Context, userID, id uint) (*dto.RecordResponseDTO, error)
	ListByType(ctx context.Context, userID uint, recordType config.RecordType) ([]dto.RecordResponseDTO, error)
	Search(ctx context.Context, userID uint, term string, recordType config.RecordType) ([]dto.RecordResponseDTO, error)
	ListByList(ctx context.Context, userID uint, listID string) ([]dto.RecordResponseDTO, error)
}

// HandlerInterface defines the contract for HTTP request handlers.
type HandlerInterface interface {
	Get(c *gin.Context)
	List(c *gin.Context)
	Search(c *gin.Context)
}
