package mocks

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/mock"
)

type SegmentReaderMock struct {
	mock.Mock
}

func (m *SegmentReaderMock) Get(ctx context.Context, id uint) (*models.Segment, error) {
	args := m.Called(ctx, id)

	seg, _ := args.Get(0).(*models.Segment)
	return seg, args.Error(1)
}

func (m *SegmentReaderMock) Members(ctx context.Context, segmentID uint, limit int) ([]models.CrmRecord, error) {
	args := m.Called(ctx, segmentID, limit)

	recs, _ := args.Get(0).([]models.CrmRecord)
	return recs, args.Error(1)
}
