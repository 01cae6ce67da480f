package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/crm"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/mocks"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConnectFixture() (*Service, *mocks.IntegrationRepoMock, *mocks.ProviderMock) {
	repo := new(mocks.IntegrationRepoMock)
	provider := new(mocks.ProviderMock)
	resolve := func(name string) (crm.Provider, error) {
		if name != "attio" {
			return nil, errors.New("unknown CRM provider: " + name)
		}
		return provider, nil
	}
	return NewService(repo, resolve), repo, provider
}

func TestServiceConnect(t *testing.T) {
	svc, repo, provider := newConnectFixture()

	provider.On("ValidateAPIKey", mock.Anything, "sk-good").Return(&crm.Validation{
		Valid:         true,
		WorkspaceName: "Acme HQ",
	}, nil)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(i *models.Integration) bool {
		return i.UserID == 1 &&
			i.Provider == "attio" &&
			i.APIKey == "sk-good" &&
			i.DisplayName == "Acme HQ" &&
			i.Status == string(config.IntegrationConnected)
	})).Return(nil)

	resp, err := svc.Connect(context.Background(), 1, &dto.ConnectIntegrationDTO{
		Provider: "attio",
		APIKey:   "sk-good",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Acme HQ", resp.WorkspaceName)

	repo.AssertExpectations(t)
}

func TestServiceConnect_ExplicitDisplayNameWins(t *testing.T) {
	svc, repo, provider := newConnectFixture()

	provider.On("ValidateAPIKey", mock.Anything, "sk-good").Return(&crm.Validation{
		Valid:         true,
		WorkspaceName: "Acme HQ",
	}, nil)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(i *models.Integration) bool {
		return i.DisplayName == "My CRM"
	})).Return(nil)

	_, err := svc.Connect(context.Background(), 1, &dto.ConnectIntegrationDTO{
		Provider:    "attio",
		APIKey:      "sk-good",
		DisplayName: "My CRM",
	})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestServiceConnect_InvalidKeyIsNotAnError(t *testing.T) {
	svc, repo, provider := newConnectFixture()

	provider.On("ValidateAPIKey", mock.Anything, "sk-bad").Return(&crm.Validation{
		Valid: false,
		Error: "Invalid API key",
	}, nil)

	resp, err := svc.Connect(context.Background(), 1, &dto.ConnectIntegrationDTO{
		Provider: "attio",
		APIKey:   "sk-bad",
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid API key", resp.Error)

	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestServiceConnect_Failures(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		svc, _, _ := newConnectFixture()

		_, err := svc.Connect(context.Background(), 1, &dto.ConnectIntegrationDTO{
			Provider: "pipedrive",
			APIKey:   "sk-any",
		})

		var apiErr common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})

	t.Run("validation transport failure", func(t *testing.T) {
		svc, _, provider := newConnectFixture()
		provider.On("ValidateAPIKey", mock.Anything, "sk-good").
			Return(nil, errors.New("connection refused"))

		_, err := svc.Connect(context.Background(), 1, &dto.ConnectIntegrationDTO{
			Provider: "attio",
			APIKey:   "sk-good",
		})

		var apiErr common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	})
}

func TestServiceGet_StripsAPIKey(t *testing.T) {
	svc, repo, _ := newConnectFixture()

	repo.On("Get", mock.Anything, uint(3)).Return(&models.Integration{
		ID:          3,
		UserID:      1,
		Provider:    "attio",
		DisplayName: "Acme HQ",
		APIKey:      "sk-secret",
		Status:      string(config.IntegrationConnected),
	}, nil)

	resp, err := svc.Get(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "Acme HQ", resp.DisplayName)
	assert.NotContains(t, jsonString(t, resp), "sk-secret")
}

func jsonString(t *testing.T, v any) string {
	t.Helper()
	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	return string(encoded)
}

func TestServiceGet_Ownership(t *testing.T) {
	t.Run("missing integration", func(t *testing.T) {
		svc, repo, _ := newConnectFixture()
		repo.On("Get", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Get(context.Background(), 1, 3)

		var apiErr common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})

	t.Run("other user's integration looks missing", func(t *testing.T) {
		svc, repo, _ := newConnectFixture()
		repo.On("Get", mock.Anything, uint(3)).Return(&models.Integration{ID: 3, UserID: 99}, nil)

		_, err := svc.Get(context.Background(), 1, 3)

		var apiErr common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})
}

func TestServiceDisconnect(t *testing.T) {
	svc, repo, _ := newConnectFixture()

	repo.On("Get", mock.Anything, uint(3)).Return(&models.Integration{ID: 3, UserID: 1}, nil)
	repo.On("Disconnect", mock.Anything, uint(3)).Return(nil)

	require.NoError(t, svc.Disconnect(context.Background(), 1, 3))
	repo.AssertExpectations(t)
}

func TestServiceList(t *testing.T) {
	svc, repo, _ := newConnectFixture()

	repo.On("ListForUser", mock.Anything, uint(1)).Return([]models.Integration{
		{ID: 3, UserID: 1, Provider: "attio", DisplayName: "Acme HQ", APIKey: "sk-secret"},
	}, nil)

	resp, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, uint(3), resp[0].ID)
}
