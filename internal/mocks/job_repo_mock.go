package mocks

import (
	"context"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type JobRepoMock struct {
	mock.Mock
}

func (m *JobRepoMock) Create(ctx context.Context, job *models.EnrichmentJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobRepoMock) Get(ctx context.Context, id uint) (*models.EnrichmentJob, error) {
	args := m.Called(ctx, id)

	job, _ := args.Get(0).(*models.EnrichmentJob)
	return job, args.Error(1)
}

func (m *JobRepoMock) LatestForRecord(ctx context.Context, recordID uint) (*models.EnrichmentJob, error) {
	args := m.Called(ctx, recordID)

	job, _ := args.Get(0).(*models.EnrichmentJob)
	return job, args.Error(1)
}

func (m *JobRepoMock) ListForUser(ctx context.Context, userID uint, limit int) ([]models.EnrichmentJob, error) {
	args := m.Called(ctx, userID, limit)

	jobs, _ := args.Get(0).([]models.EnrichmentJob)
	return jobs, args.Error(1)
}

func (m *JobRepoMock) ListRunning(ctx context.Context) ([]models.EnrichmentJob, error) {
	args := m.Called(ctx)

	jobs, _ := args.Get(0).([]models.EnrichmentJob)
	return jobs, args.Error(1)
}

func (m *JobRepoMock) MarkRunning(ctx context.Context, id uint, agentJobID, statusMessage string, startedAt time.Time) error {
	args := m.Called(ctx, id, agentJobID, statusMessage, startedAt)
	return args.Error(0)
}

func (m *JobRepoMock) UpdateProgress(ctx context.Context, id uint, pollCount int, statusMessage string) error {
	args := m.Called(ctx, id, pollCount, statusMessage)
	return args.Error(0)
}

func (m *JobRepoMock) Complete(
	ctx context.Context,
	id uint,
	status config.JobStatus,
	result datatypes.JSON,
	errMsg string,
	completedAt time.Time,
) error {
	args := m.Called(ctx, id, status, result, errMsg, completedAt)
	return args.Error(0)
}
