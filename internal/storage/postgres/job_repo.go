package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new enrichment job row. Uses the provided context for
// cancellation and timeout propagation.
func (r *JobRepository) Create(ctx context.Context, job *models.EnrichmentJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create enrichment job: %w", err)
	}
	return nil
}

// Get retrieves a single job by its ID.
func (r *JobRepository) Get(ctx context.Context, id uint) (*models.EnrichmentJob, error) {
	var job models.EnrichmentJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %w", err)
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// LatestForRecord returns the most recently created job for a record, or
// gorm.ErrRecordNotFound wrapped when the record has never been enriched.
func (r *JobRepository) LatestForRecord(ctx context.Context, recordID uint) (*models.EnrichmentJob, error) {
	var job models.EnrichmentJob
	if err := r.db.WithContext(ctx).
		Where("crm_record_id = ?", recordID).
		Order("created_at DESC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %w", err)
		}
		return nil, fmt.Errorf("latest job for record: %w", err)
	}
	return &job, nil
}

// ListForUser returns a user's jobs, newest first.
func (r *JobRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]models.EnrichmentJob, error) {
	var jobs []models.EnrichmentJob
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// ListRunning returns every job currently in the running state. Used at
// startup to re-arm poll chains that were in flight when the process died.
func (r *JobRepository) ListRunning(ctx context.Context) ([]models.EnrichmentJob, error) {
	var jobs []models.EnrichmentJob
	if err := r.db.WithContext(ctx).
		Where("status = ?", config.JobStatusRunning).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list running jobs: %w", err)
	}
	return jobs, nil
}

// MarkRunning records that the external agent accepted the job. The poll
// counter is reset so the poll chain starts from a clean budget.
func (r *JobRepository) MarkRunning(ctx context.Context, id uint, agentJobID, statusMessage string, startedAt time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.EnrichmentJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         config.JobStatusRunning,
			"agent_job_id":   agentJobID,
			"status_message": statusMessage,
			"poll_count":     0,
			"started_at":     startedAt,
		}).Error; err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}
	return nil
}

// UpdateProgress persists the poll counter and a human-readable progress
// message after a poll step that found the agent still working.
func (r *JobRepository) UpdateProgress(ctx context.Context, id uint, pollCount int, statusMessage string) error {
	if err := r.db.WithContext(ctx).Model(&models.EnrichmentJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"poll_count":     pollCount,
			"status_message": statusMessage,
		}).Error; err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return nil
}

// Complete moves a job to a terminal state. Result and error are both
// written so a failed job keeps whatever partial context it had.
func (r *JobRepository) Complete(ctx context.Context, id uint, status config.JobStatus, result datatypes.JSON, errMsg string, completedAt time.Time) error {
	statusMessage := "Enrichment complete"
	if status != config.JobStatusCompleted {
		statusMessage = errMsg
	}
	if err := r.db.WithContext(ctx).Model(&models.EnrichmentJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         status,
			"result":         result,
			"error":          errMsg,
			"status_message": statusMessage,
			"completed_at":   completedAt,
		}).Error; err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}
