package mocks

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/mock"
)

type RecordWriterMock struct {
	mock.Mock
}

func (m *RecordWriterMock) Upsert(ctx context.Context, rec *models.CrmRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *RecordWriterMock) AddListMembership(ctx context.Context, integrationID uint, externalID string, membership models.ListMembership) error {
	args := m.Called(ctx, integrationID, externalID, membership)
	return args.Error(0)
}
