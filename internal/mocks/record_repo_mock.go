package mocks

import (
	"context"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type RecordRepoMock struct {
	mock.Mock
}

func (m *RecordRepoMock) Get(ctx context.Context, id uint) (*models.CrmRecord, error) {
	args := m.Called(ctx, id)

	rec, _ := args.Get(0).(*models.CrmRecord)
	return rec, args.Error(1)
}

func (m *RecordRepoMock) UpdateEnrichmentStatus(ctx context.Context, id uint, status config.EnrichmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *RecordRepoMock) CompleteEnrichment(ctx context.Context, id uint, status config.EnrichmentStatus, data datatypes.JSON, at time.Time) error {
	args := m.Called(ctx, id, status, data, at)
	return args.Error(0)
}
