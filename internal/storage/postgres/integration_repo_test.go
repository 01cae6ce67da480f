package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedIntegration(t *testing.T, repo *IntegrationRepository, userID uint) *models.Integration {
	t.Helper()
	integ := &models.Integration{
		UserID:      userID,
		Provider:    "attio",
		DisplayName: "Attio Workspace",
		APIKey:      "sk-first",
		Metadata:    datatypes.JSON(`{"workspaceName":"Attio Workspace"}`),
	}
	require.NoError(t, repo.Upsert(context.Background(), integ))
	return integ
}

func TestIntegrationRepository_UpsertInsert(t *testing.T) {
	repo := NewIntegrationRepository(SetupTestDB(t))

	integ := seedIntegration(t, repo, 1)
	require.NotZero(t, integ.ID)

	got, err := repo.Get(context.Background(), integ.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.IntegrationConnected), got.Status)
	assert.Equal(t, "sk-first", got.APIKey)
}

func TestIntegrationRepository_UpsertReconnectResetsState(t *testing.T) {
	repo := NewIntegrationRepository(SetupTestDB(t))
	ctx := context.Background()

	integ := seedIntegration(t, repo, 1)
	require.NoError(t, repo.MarkSyncError(ctx, integ.ID, "rate limited"))

	again := &models.Integration{
		UserID:      1,
		Provider:    "attio",
		DisplayName: "Attio EU",
		APIKey:      "sk-second",
	}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, integ.ID, again.ID)

	got, err := repo.Get(ctx, integ.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.IntegrationConnected), got.Status)
	assert.Equal(t, "sk-second", got.APIKey)
	assert.Equal(t, "Attio EU", got.DisplayName)
	assert.Empty(t, got.LastError)
	// Metadata from the first connect survives when the reconnect sends none.
	assert.JSONEq(t, `{"workspaceName":"Attio Workspace"}`, string(got.Metadata))
}

func TestIntegrationRepository_Disconnect(t *testing.T) {
	repo := NewIntegrationRepository(SetupTestDB(t))
	ctx := context.Background()

	integ := seedIntegration(t, repo, 1)
	require.NoError(t, repo.Disconnect(ctx, integ.ID))

	got, err := repo.Get(ctx, integ.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.IntegrationDisconnected), got.Status)
	assert.Empty(t, got.APIKey)
}

func TestIntegrationRepository_MarkSyncedClearsError(t *testing.T) {
	repo := NewIntegrationRepository(SetupTestDB(t))
	ctx := context.Background()

	integ := seedIntegration(t, repo, 1)
	require.NoError(t, repo.MarkSyncError(ctx, integ.ID, "provider down"))

	at := time.Now()
	require.NoError(t, repo.MarkSynced(ctx, integ.ID, at))

	got, err := repo.Get(ctx, integ.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LastError)
	require.NotNil(t, got.LastSyncedAt)
	// Status stays "error" until the next successful connect or explicit
	// reset; MarkSynced only records the timestamp and clears the message.
	assert.Equal(t, string(config.IntegrationError), got.Status)
}

func TestIntegrationRepository_ListForUser(t *testing.T) {
	repo := NewIntegrationRepository(SetupTestDB(t))

	seedIntegration(t, repo, 1)
	seedIntegration(t, repo, 2)

	integs, err := repo.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, integs, 1)
	assert.Equal(t, uint(1), integs[0].UserID)
}
