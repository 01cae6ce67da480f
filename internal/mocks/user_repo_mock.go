package mocks

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetByToken(ctx context.Context, tokenIdentifier string) (*models.User, error) {
	args := m.Called(ctx, tokenIdentifier)

	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Upsert(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
