package segment

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/gin-gonic/gin"
)

// RepoInterface defines the contract for segment persistence.
type RepoInterface interface {
	Create(ctx context.Context, seg *models.Segment) error
	Get(ctx context.Context, id uint) (*models.Segment, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Segment, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	Delete(ctx context.Context, id uint) error
	AddMember(ctx context.Context, segmentID, recordID uint, member *models.SegmentMember) (bool, error)
	RemoveMember(ctx context.Context, segmentID, recordID uint) error
	RefreshMemberCount(ctx context.Context, segmentID uint) (int, error)
	Members(ctx context.Context, segmentID uint, limit int) ([]models.CrmRecord, error)
}

// RecordReaderInterface is the record read surface segment building needs.
type RecordReaderInterface interface {
	ListByList(ctx context.Context, userID uint, listID string, limit int) ([]models.CrmRecord, error)
}

// ServiceInterface defines the caller-facing segment operations.
type ServiceInterface interface {
	Create(ctx context.Context, userID uint, req *dto.SegmentCreateDTO) (*dto.SegmentResponseDTO, error)
	List(ctx context.Context, userID uint) ([]dto.SegmentResponseDTO, error)
	Get(ctx context.Context, userID, id uint) (*dto.SegmentResponseDTO, error)
	Update(ctx context.Context, userID, id uint, req *dto.SegmentUpdateDTO) (*dto.SegmentResponseDTO, error)
	Delete(ctx context.Context, userID, id uint) error
	AddMembers(ctx context.Context, userID, id uint, recordIDs []uint) (*dto.MembersChangedResponse, error)
	RemoveMembers(ctx context.Context, userID, id uint, recordIDs []uint) error
	CreateFromList(ctx context.Context, userID uint, req *dto.SegmentFromListDTO) (*dto.SegmentFromListResponse, error)
	Members(ctx context.Context, userID, id uint, limit int) ([]dto.RecordResponseDTO, error)
}

// HandlerInterface defines the contract for HTTP request handlers.
type HandlerInterface interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	AddMembers(c *gin.Context)
	RemoveMembers(c *gin.Context)
	CreateFromList(c *gin.Context)
	Members(c *gin.Context)
}
