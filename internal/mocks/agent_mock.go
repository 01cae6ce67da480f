package mocks

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/internal/agent"
	"github.com/stretchr/testify/mock"
)

type AgentMock struct {
	mock.Mock
}

func (m *AgentMock) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *AgentMock) Start(ctx context.Context, prompt string, schema any, urls []string) (*agent.StartResult, error) {
	args := m.Called(ctx, prompt, schema, urls)

	res, _ := args.Get(0).(*agent.StartResult)
	return res, args.Error(1)
}

func (m *AgentMock) Status(ctx context.Context, jobID string) (*agent.JobState, error) {
	args := m.Called(ctx, jobID)

	state, _ := args.Get(0).(*agent.JobState)
	return state, args.Error(1)
}
