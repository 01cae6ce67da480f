package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/agent"
	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/bob-rietveld/unheard-v3/internal/observability"
	"github.com/bob-rietveld/unheard-v3/internal/schedule"
	"gorm.io/datatypes"
)

const (
	agentStartedMessage  = "Agent started - searching the web for data..."
	agentFailedMessage   = "Research agent failed to extract data"
	notConfiguredMessage = "research agent API key not configured"
)

// Options tune the poll chain. Zero values fall back to the defaults of
// one-minute polls with a budget of ten.
type Options struct {
	PollInterval time.Duration
	MaxPolls     int
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = config.DefaultPollInterval
	}
	if o.MaxPolls <= 0 {
		o.MaxPolls = config.DefaultMaxPolls
	}
	return o
}

// Orchestrator drives one enrichment job from submission through the agent
// poll chain to a terminal state. All coordination between its phases flows
// through persisted job and record rows plus scheduled callbacks; nothing
// is held in memory across invocations except the immutable poll arguments.
type Orchestrator struct {
	jobs      JobRepoInterface
	records   RecordRepoInterface
	agent     AgentInterface
	scheduler schedule.Runner
	logger    *slog.Logger
	opts      Options
}

var _ ExecutorInterface = (*Orchestrator)(nil)

func NewOrchestrator(
	jobs JobRepoInterface,
	records RecordRepoInterface,
	agentClient AgentInterface,
	scheduler schedule.Runner,
	logger *slog.Logger,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		jobs:      jobs,
		records:   records,
		agent:     agentClient,
		scheduler: scheduler,
		logger:    logger,
		opts:      opts.withDefaults(),
	}
}

// Execute is the dispatch queue's entry point: one attempt to enrich one
// record. A returned error triggers the queue's generic retry, which will
// run Execute again and create a fresh job row; agent-side failures are
// recorded on the job instead of returned so they are not retried.
func (o *Orchestrator) Execute(ctx context.Context, userID, recordID uint) error {
	rec, err := o.records.Get(ctx, recordID)
	if err != nil {
		o.logger.Warn("enrichment target vanished", "record_id", recordID, "error", err)
		return nil
	}
	if rec.UserID != userID {
		o.logger.Warn("enrichment target not owned by requester", "record_id", recordID, "user_id", userID)
		return nil
	}

	hints, urls := ExtractHints(rec)
	prompt := BuildPrompt(config.RecordType(rec.RecordType), rec.Name, hints)
	schema := SchemaForRecordType(config.RecordType(rec.RecordType))

	seedURLs := urls
	if len(seedURLs) == 0 {
		seedURLs = []string{rec.Name}
	}
	encodedURLs, err := json.Marshal(seedURLs)
	if err != nil {
		return fmt.Errorf("encode seed urls: %w", err)
	}

	job := &models.EnrichmentJob{
		UserID:      userID,
		CrmRecordID: recordID,
		Status:      string(config.JobStatusPending),
		URLs:        datatypes.JSON(encodedURLs),
	}
	if err := o.jobs.Create(ctx, job); err != nil {
		return err
	}
	if err := o.records.UpdateEnrichmentStatus(ctx, recordID, config.EnrichmentPending); err != nil {
		return err
	}

	// An unconfigured agent is recorded as a failed job rather than a
	// silent no-op, so batch enrichment leaves a trace.
	if !o.agent.Enabled() {
		o.completeJob(ctx, job.ID, recordID, config.JobStatusFailed, nil, notConfiguredMessage)
		return nil
	}

	result, err := o.agent.Start(ctx, prompt, schema, urls)
	if err != nil {
		o.completeJob(ctx, job.ID, recordID, config.JobStatusFailed, nil, err.Error())
		return nil
	}

	if len(result.Immediate) > 0 {
		o.completeJob(ctx, job.ID, recordID, config.JobStatusCompleted, datatypes.JSON(result.Immediate), "")
		return nil
	}

	if err := o.jobs.MarkRunning(ctx, job.ID, result.JobID, agentStartedMessage, time.Now()); err != nil {
		return err
	}
	o.schedulePoll(PollArgs{
		JobID:      job.ID,
		RecordID:   recordID,
		AgentJobID: result.JobID,
		PollCount:  1,
	})
	return nil
}

// PollArgs carry the immutable identity of one poll step. Everything else
// is re-read from persisted state so stale closures cannot corrupt a job.
type PollArgs struct {
	JobID      uint
	RecordID   uint
	AgentJobID string
	PollCount  int
}

// Poll is one step of the cooperative poll chain. It is idempotent against
// current persisted state: re-invocation after the job reached a terminal
// state mutates nothing.
func (o *Orchestrator) Poll(ctx context.Context, args PollArgs) error {
	job, err := o.jobs.Get(ctx, args.JobID)
	if err != nil {
		return err
	}
	if config.JobStatus(job.Status).IsTerminal() {
		observability.PollSteps.WithLabelValues("skipped").Inc()
		return nil
	}

	state, err := o.agent.Status(ctx, args.AgentJobID)
	if err != nil {
		// Transient transport trouble is inconclusive, not fatal: leave the
		// counter alone and try again at the standard interval.
		o.logger.Warn("agent status unreachable, polling again",
			"job_id", args.JobID, "poll_count", args.PollCount, "error", err)
		observability.PollSteps.WithLabelValues("processing").Inc()
		o.schedulePoll(args)
		return nil
	}

	switch state.State {
	case agent.StateCompleted:
		observability.PollSteps.WithLabelValues("completed").Inc()
		o.completeJob(ctx, args.JobID, args.RecordID, config.JobStatusCompleted, datatypes.JSON(state.Data), "")
		return nil

	case agent.StateFailed:
		observability.PollSteps.WithLabelValues("failed").Inc()
		o.completeJob(ctx, args.JobID, args.RecordID, config.JobStatusFailed, nil, agentFailedMessage)
		return nil
	}

	// Still processing.
	if args.PollCount >= o.opts.MaxPolls {
		observability.PollSteps.WithLabelValues("timeout").Inc()
		timeoutMsg := fmt.Sprintf("Enrichment timed out after %d minutes", o.opts.MaxPolls)
		if err := o.jobs.UpdateProgress(ctx, args.JobID, args.PollCount, timeoutMsg); err != nil {
			o.logger.Error("record final poll count", "job_id", args.JobID, "error", err)
		}
		o.completeJob(ctx, args.JobID, args.RecordID, config.JobStatusFailed, nil, timeoutMsg)
		return nil
	}

	observability.PollSteps.WithLabelValues("processing").Inc()
	elapsed := args.PollCount
	remaining := o.opts.MaxPolls - args.PollCount
	progress := fmt.Sprintf("Agent is researching... (%d min elapsed, %d min remaining)", elapsed, remaining)
	if err := o.jobs.UpdateProgress(ctx, args.JobID, args.PollCount, progress); err != nil {
		return err
	}

	next := args
	next.PollCount = args.PollCount + 1
	o.schedulePoll(next)
	return nil
}

// Resume re-arms the poll chains of jobs that were running when the process
// last stopped. The chain is crash-safe because each step is derived from
// persisted state.
func (o *Orchestrator) Resume(ctx context.Context) error {
	jobs, err := o.jobs.ListRunning(ctx)
	if err != nil {
		return fmt.Errorf("resume enrichment jobs: %w", err)
	}
	for _, job := range jobs {
		if job.AgentJobID == "" {
			continue
		}
		o.schedulePoll(PollArgs{
			JobID:      job.ID,
			RecordID:   job.CrmRecordID,
			AgentJobID: job.AgentJobID,
			PollCount:  job.PollCount + 1,
		})
	}
	if len(jobs) > 0 {
		o.logger.Info("resumed in-flight enrichment jobs", "count", len(jobs))
	}
	return nil
}

func (o *Orchestrator) schedulePoll(args PollArgs) {
	o.scheduler.RunAfter(o.opts.PollInterval, func(ctx context.Context) {
		if err := o.Poll(ctx, args); err != nil {
			o.logger.Error("poll step failed",
				"job_id", args.JobID, "poll_count", args.PollCount, "error", err)
		}
	})
}

// completeJob reconciles a terminal outcome into both the job row and the
// record row. The two writes are one logical unit from the caller's point
// of view but are not atomic across crashes.
func (o *Orchestrator) completeJob(ctx context.Context, jobID, recordID uint, status config.JobStatus, result datatypes.JSON, errMsg string) {
	now := time.Now()
	if err := o.jobs.Complete(ctx, jobID, status, result, errMsg, now); err != nil {
		o.logger.Error("complete job", "job_id", jobID, "error", err)
	}

	recordStatus := config.EnrichmentEnriched
	if status != config.JobStatusCompleted {
		recordStatus = config.EnrichmentFailed
	}
	if err := o.records.CompleteEnrichment(ctx, recordID, recordStatus, result, now); err != nil {
		o.logger.Error("reconcile record enrichment", "record_id", recordID, "error", err)
	}
	observability.JobsProcessed.WithLabelValues(string(status)).Inc()
}
