package enrichment

import (
	"context"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/agent"
	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/bob-rietveld/unheard-v3/internal/pool"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// JobRepoInterface defines the contract for enrichment job persistence.
type JobRepoInterface interface {
	Create(ctx context.Context, job *models.EnrichmentJob) error
	Get(ctx context.Context, id uint) (*models.EnrichmentJob, error)
	LatestForRecord(ctx context.Context, recordID uint) (*models.EnrichmentJob, error)
	ListForUser(ctx context.Context, userID uint, limit int) ([]models.EnrichmentJob, error)
	ListRunning(ctx context.Context) ([]models.EnrichmentJob, error)
	MarkRunning(ctx context.Context, id uint, agentJobID, statusMessage string, startedAt time.Time) error
	UpdateProgress(ctx context.Context, id uint, pollCount int, statusMessage string) error
	Complete(ctx context.Context, id uint, status config.JobStatus, result datatypes.JSON, errMsg string, completedAt time.Time) error
}

// RecordRepoInterface is the slice of record persistence the enrichment
// pipeline needs. No other component writes enrichment fields.
type RecordRepoInterface interface {
	Get(ctx context.Context, id uint) (*models.CrmRecord, error)
	UpdateEnrichmentStatus(ctx context.Context, id uint, status config.EnrichmentStatus) error
	CompleteEnrichment(ctx context.Context, id uint, status config.EnrichmentStatus, data datatypes.JSON, at time.Time) error
}

// SegmentReaderInterface reads segments and their member records for batch
// enrichment.
type SegmentReaderInterface interface {
	Get(ctx context.Context, id uint) (*models.Segment, error)
	Members(ctx context.Context, segmentID uint, limit int) ([]models.CrmRecord, error)
}

// AgentInterface is the research agent surface the orchestrator talks to.
type AgentInterface interface {
	Enabled() bool
	Start(ctx context.Context, prompt string, schema any, urls []string) (*agent.StartResult, error)
	Status(ctx context.Context, jobID string) (*agent.JobState, error)
}

// AgentGateInterface is the configuration check the request phase runs
// before accepting enrichment work.
type AgentGateInterface interface {
	Enabled() bool
}

// DispatcherInterface is the dispatch queue surface used by the request
// phase.
type DispatcherInterface interface {
	Enqueue(item pool.Item) pool.Handle
	EnqueueBatch(items []pool.Item) []pool.Handle
}

// ExecutorInterface is the execution entry point the dispatch queue invokes.
type ExecutorInterface interface {
	Execute(ctx context.Context, userID, recordID uint) error
}

// ServiceInterface defines the caller-facing enrichment operations.
type ServiceInterface interface {
	EnrichRecord(ctx context.Context, userID, recordID uint) (*dto.EnrichRecordResponse, error)
	EnrichSegment(ctx context.Context, userID, segmentID uint) (*dto.EnrichSegmentResponse, error)
	GetJob(ctx context.Context, userID, jobID uint) (*dto.JobResponseDTO, error)
	GetJobForRecord(ctx context.Context, userID, recordID uint) (*dto.JobResponseDTO, error)
	ListJobs(ctx context.Context, userID uint, limit int) ([]dto.JobResponseDTO, error)
}

// HandlerInterface defines the contract for HTTP request handlers.
type HandlerInterface interface {
	EnrichRecord(c *gin.Context)
	EnrichSegment(c *gin.Context)
	GetJob(c *gin.Context)
	GetJobForRecord(c *gin.Context)
	ListJobs(c *gin.Context)
}
