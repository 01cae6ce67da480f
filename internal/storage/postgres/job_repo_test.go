package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedJob(t *testing.T, repo *JobRepository, userID, recordID uint) *models.EnrichmentJob {
	t.Helper()
	job := &models.EnrichmentJob{
		UserID:      userID,
		CrmRecordID: recordID,
		Status:      string(config.JobStatusPending),
		URLs:        datatypes.JSON(`["https://acme.io"]`),
	}
	require.NoError(t, repo.Create(context.Background(), job))
	return job
}

func TestJobRepository_CreateAndGet(t *testing.T) {
	repo := NewJobRepository(SetupTestDB(t))
	job := seedJob(t, repo, 1, 7)

	got, err := repo.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.CrmRecordID)
	assert.Equal(t, string(config.JobStatusPending), got.Status)
	assert.Zero(t, got.PollCount)

	_, err = repo.Get(context.Background(), 999)
	assert.ErrorContains(t, err, "job not found")
}

func TestJobRepository_LatestForRecord(t *testing.T) {
	repo := NewJobRepository(SetupTestDB(t))

	first := seedJob(t, repo, 1, 7)
	// created_at ordering needs distinct timestamps.
	time.Sleep(5 * time.Millisecond)
	second := seedJob(t, repo, 1, 7)
	_ = first

	got, err := repo.LatestForRecord(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = repo.LatestForRecord(context.Background(), 8)
	assert.ErrorContains(t, err, "job not found")
}

func TestJobRepository_MarkRunningResetsPollCount(t *testing.T) {
	repo := NewJobRepository(SetupTestDB(t))
	job := seedJob(t, repo, 1, 7)

	require.NoError(t, repo.UpdateProgress(context.Background(), job.ID, 5, "stale"))

	started := time.Now()
	require.NoError(t, repo.MarkRunning(context.Background(), job.ID, "agent-1", "Agent started", started))

	got, err := repo.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusRunning), got.Status)
	assert.Equal(t, "agent-1", got.AgentJobID)
	assert.Equal(t, "Agent started", got.StatusMessage)
	assert.Zero(t, got.PollCount)
	require.NotNil(t, got.StartedAt)
}

func TestJobRepository_UpdateProgress(t *testing.T) {
	repo := NewJobRepository(SetupTestDB(t))
	job := seedJob(t, repo, 1, 7)

	require.NoError(t, repo.UpdateProgress(context.Background(), job.ID, 3, "still working"))

	got, err := repo.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.PollCount)
	assert.Equal(t, "still working", got.StatusMessage)
}

func TestJobRepository_Complete(t *testing.T) {
	t.Run("success carries result and completion message", func(t *testing.T) {
		repo := NewJobRepository(SetupTestDB(t))
		job := seedJob(t, repo, 1, 7)

		result := datatypes.JSON(`{"industry":"software"}`)
		require.NoError(t, repo.Complete(
			context.Background(), job.ID, config.JobStatusCompleted, result, "", time.Now()))

		got, err := repo.Get(context.Background(), job.ID)
		require.NoError(t, err)
		assert.Equal(t, string(config.JobStatusCompleted), got.Status)
		assert.JSONEq(t, string(result), string(got.Result))
		assert.Equal(t, "Enrichment complete", got.StatusMessage)
		assert.Empty(t, got.Error)
		require.NotNil(t, got.CompletedAt)
	})

	t.Run("failure carries the error as status message", func(t *testing.T) {
		repo := NewJobRepository(SetupTestDB(t))
		job := seedJob(t, repo, 1, 7)

		require.NoError(t, repo.Complete(
			context.Background(), job.ID, config.JobStatusFailed, nil, "agent gave up", time.Now()))

		got, err := repo.Get(context.Background(), job.ID)
		require.NoError(t, err)
		assert.Equal(t, string(config.JobStatusFailed), got.Status)
		assert.Equal(t, "agent gave up", got.Error)
		assert.Equal(t, "agent gave up", got.StatusMessage)
	})
}

func TestJobRepository_ListRunning(t *testing.T) {
	repo := NewJobRepository(SetupTestDB(t))

	running := seedJob(t, repo, 1, 7)
	require.NoError(t, repo.MarkRunning(context.Background(), running.ID, "agent-1", "m", time.Now()))
	done := seedJob(t, repo, 1, 8)
	require.NoError(t, repo.Complete(context.Background(), done.ID, config.JobStatusCompleted, nil, "", time.Now()))
	seedJob(t, repo, 1, 9) // stays pending

	jobs, err := repo.ListRunning(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, running.ID, jobs[0].ID)
}

func TestJobRepository_ListForUser(t *testing.T) {
	repo := NewJobRepository(SetupTestDB(t))

	seedJob(t, repo, 1, 7)
	seedJob(t, repo, 1, 8)
	seedJob(t, repo, 2, 9)

	jobs, err := repo.ListForUser(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	jobs, err = repo.ListForUser(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
