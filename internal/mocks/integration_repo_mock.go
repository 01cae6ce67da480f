package mocks

import (
	"context"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/mock"
)

type IntegrationRepoMock struct {
	mock.Mock
}

func (m *IntegrationRepoMock) Get(ctx context.Context, id uint) (*models.Integration, error) {
	args := m.Called(ctx, id)

	integ, _ := args.Get(0).(*models.Integration)
	return integ, args.Error(1)
}

func (m *IntegrationRepoMock) ListForUser(ctx context.Context, userID uint) ([]models.Integration, error) {
	args := m.Called(ctx, userID)

	integs, _ := args.Get(0).([]models.Integration)
	return integs, args.Error(1)
}

func (m *IntegrationRepoMock) Upsert(ctx context.Context, integ *models.Integration) error {
	args := m.Called(ctx, integ)
	return args.Error(0)
}

func (m *IntegrationRepoMock) Disconnect(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *IntegrationRepoMock) MarkSynced(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *IntegrationRepoMock) MarkSyncError(ctx context.Context, id uint, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}
