package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/bob-rietveld/unheard-v3/internal/observability"
	"github.com/bob-rietveld/unheard-v3/internal/pool"
	"gorm.io/gorm"
)

const queuedMessage = "Enrichment queued - results will appear shortly"

// Service handles the request phase of enrichment: ownership checks, the
// needs-enrichment gate, and handing work to the dispatch queue. The heavy
// lifting happens later inside the executor, on the queue's goroutines.
type Service struct {
	jobs     JobRepoInterface
	records  RecordRepoInterface
	segments SegmentReaderInterface
	queue    DispatcherInterface
	executor ExecutorInterface
	agent    AgentGateInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	jobs JobRepoInterface,
	records RecordRepoInterface,
	segments SegmentReaderInterface,
	queue DispatcherInterface,
	executor ExecutorInterface,
	agent AgentGateInterface,
) *Service {
	return &Service{
		jobs:     jobs,
		records:  records,
		segments: segments,
		queue:    queue,
		executor: executor,
		agent:    agent,
	}
}

// requireAgent rejects enrichment requests up front when no agent API key
// is configured, before any state mutation.
func (s *Service) requireAgent() error {
	if !s.agent.Enabled() {
		return common.Errf(http.StatusServiceUnavailable, "research agent API key not configured")
	}
	return nil
}

// EnrichRecord schedules enrichment of a single record. The request is
// accepted regardless of the record's current enrichment status, so an
// already-enriched record can be deliberately re-enriched to refresh its
// data; only batch enrichment filters on status.
func (s *Service) EnrichRecord(ctx context.Context, userID, recordID uint) (*dto.EnrichRecordResponse, error) {
	if err := s.requireAgent(); err != nil {
		return nil, err
	}
	rec, err := s.ownedRecord(ctx, userID, recordID)
	if err != nil {
		return nil, err
	}

	if err := s.records.UpdateEnrichmentStatus(ctx, recordID, config.EnrichmentPending); err != nil {
		return nil, common.MapRepoError(err, "failed to schedule enrichment")
	}
	s.enqueue(userID, rec)

	return &dto.EnrichRecordResponse{Success: true, Message: queuedMessage}, nil
}

// EnrichSegment schedules enrichment for every member of a segment that
// still needs it. Members are partitioned up front; the scheduled ones are
// submitted as one batch so the queue preserves their order.
func (s *Service) EnrichSegment(ctx context.Context, userID, segmentID uint) (*dto.EnrichSegmentResponse, error) {
	if err := s.requireAgent(); err != nil {
		return nil, err
	}
	seg, err := s.segments.Get(ctx, segmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("segment")
		}
		return nil, common.MapRepoError(err, "failed to load segment")
	}
	if seg.UserID != userID {
		return nil, common.NotFound("segment")
	}

	members, err := s.segments.Members(ctx, segmentID, 0)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to load segment members")
	}

	resp := &dto.EnrichSegmentResponse{}
	var items []pool.Item
	for i := range members {
		rec := members[i]
		if !config.EnrichmentStatus(rec.EnrichmentStatus).NeedsEnrichment() {
			resp.Skipped++
			continue
		}
		// Members either schedule or skip; a repo failure aborts the whole
		// request, so the summary's Failed count is always zero.
		if err := s.records.UpdateEnrichmentStatus(ctx, rec.ID, config.EnrichmentPending); err != nil {
			return nil, common.MapRepoError(err, "failed to schedule enrichment")
		}
		items = append(items, s.queueItem(userID, &rec))
		resp.Scheduled++
	}
	if len(items) > 0 {
		s.queue.EnqueueBatch(items)
	}
	return resp, nil
}

func (s *Service) GetJob(ctx context.Context, userID, jobID uint) (*dto.JobResponseDTO, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("enrichment job")
		}
		return nil, common.MapRepoError(err, "failed to load enrichment job")
	}
	if job.UserID != userID {
		return nil, common.NotFound("enrichment job")
	}
	return jobToDTO(job), nil
}

// GetJobForRecord returns the most recent job for a record, which is what a
// status panel wants after submitting enrichment.
func (s *Service) GetJobForRecord(ctx context.Context, userID, recordID uint) (*dto.JobResponseDTO, error) {
	if _, err := s.ownedRecord(ctx, userID, recordID); err != nil {
		return nil, err
	}
	job, err := s.jobs.LatestForRecord(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("enrichment job")
		}
		return nil, common.MapRepoError(err, "failed to load enrichment job")
	}
	return jobToDTO(job), nil
}

func (s *Service) ListJobs(ctx context.Context, userID uint, limit int) ([]dto.JobResponseDTO, error) {
	jobs, err := s.jobs.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to list enrichment jobs")
	}
	out := make([]dto.JobResponseDTO, 0, len(jobs))
	for i := range jobs {
		out = append(out, *jobToDTO(&jobs[i]))
	}
	return out, nil
}

func (s *Service) ownedRecord(ctx context.Context, userID, recordID uint) (*models.CrmRecord, error) {
	rec, err := s.records.Get(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("record")
		}
		return nil, common.MapRepoError(err, "failed to load record")
	}
	if rec.UserID != userID {
		return nil, common.NotFound("record")
	}
	return rec, nil
}

func (s *Service) enqueue(userID uint, rec *models.CrmRecord) {
	s.queue.Enqueue(s.queueItem(userID, rec))
}

func (s *Service) queueItem(userID uint, rec *models.CrmRecord) pool.Item {
	recordID := rec.ID
	observability.JobsSubmitted.WithLabelValues(rec.RecordType).Inc()
	return pool.Item{
		Run: func(ctx context.Context) error {
			return s.executor.Execute(ctx, userID, recordID)
		},
		Retry: &pool.RetryPolicy{
			MaxAttempts:    config.DefaultMaxAttempts,
			InitialBackoff: config.DefaultInitialBackoff,
			Base:           config.DefaultBackoffBase,
		},
	}
}

func jobToDTO(job *models.EnrichmentJob) *dto.JobResponseDTO {
	out := &dto.JobResponseDTO{
		ID:            job.ID,
		CrmRecordID:   job.CrmRecordID,
		Status:        job.Status,
		StatusMessage: job.StatusMessage,
		PollCount:     job.PollCount,
		Error:         job.Error,
		StartedAt:     job.StartedAt,
		CompletedAt:   job.CompletedAt,
		CreatedAt:     job.CreatedAt,
	}
	if len(job.URLs) > 0 {
		// Malformed rows degrade to an empty list rather than failing the read.
		_ = json.Unmarshal(job.URLs, &out.URLs)
	}
	if len(job.Result) > 0 {
		out.Result = json.RawMessage(job.Result)
	}
	return out
}
