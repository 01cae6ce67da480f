package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ExecutorMock struct {
	mock.Mock
}

func (m *ExecutorMock) Execute(ctx context.Context, userID, recordID uint) error {
	args := m.Called(ctx, userID, recordID)
	return args.Error(0)
}
