package mocks

import (
	"github.com/bob-rietveld/unheard-v3/internal/pool"
	"github.com/stretchr/testify/mock"
)

type DispatcherMock struct {
	mock.Mock
}

func (m *DispatcherMock) Enqueue(item pool.Item) pool.Handle {
	args := m.Called(item)

	h, _ := args.Get(0).(pool.Handle)
	return h
}

func (m *DispatcherMock) EnqueueBatch(items []pool.Item) []pool.Handle {
	args := m.Called(items)

	hs, _ := args.Get(0).([]pool.Handle)
	return hs
}
