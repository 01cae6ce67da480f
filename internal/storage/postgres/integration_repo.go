package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/gorm"
)

type IntegrationRepository struct {
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

func (r *IntegrationRepository) Get(ctx context.Context, id uint) (*models.Integration, error) {
	var integ models.Integration
	if err := r.db.WithContext(ctx).First(&integ, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("integration not found: %w", err)
		}
		return nil, fmt.Errorf("get integration: %w", err)
	}
	return &integ, nil
}

func (r *IntegrationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Integration, error) {
	var integs []models.Integration
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&integs).Error; err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	return integs, nil
}

// Upsert creates or reconnects an integration keyed by (userID, provider).
// Reconnecting replaces the key, resets the status, and clears the last
// error.
func (r *IntegrationRepository) Upsert(ctx context.Context, integ *models.Integration) error {
	var existing models.Integration
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", integ.UserID, integ.Provider).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("upsert integration lookup: %w", err)
		}
		integ.Status = string(config.IntegrationConnected)
		if err := r.db.WithContext(ctx).Create(integ).Error; err != nil {
			return fmt.Errorf("upsert integration insert: %w", err)
		}
		return nil
	}

	updates := map[string]any{
		"api_key":      integ.APIKey,
		"display_name": integ.DisplayName,
		"status":       config.IntegrationConnected,
		"last_error":   "",
	}
	if integ.Metadata != nil {
		updates["metadata"] = integ.Metadata
	}
	if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("upsert integration update: %w", err)
	}
	integ.ID = existing.ID
	return nil
}

// Disconnect clears the stored API key and marks the integration inactive.
func (r *IntegrationRepository) Disconnect(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Model(&models.Integration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  config.IntegrationDisconnected,
			"api_key": "",
		}).Error; err != nil {
		return fmt.Errorf("disconnect integration: %w", err)
	}
	return nil
}

func (r *IntegrationRepository) MarkSynced(ctx context.Context, id uint, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.Integration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_synced_at": at,
			"last_error":     "",
		}).Error; err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (r *IntegrationRepository) MarkSyncError(ctx context.Context, id uint, errMsg string) error {
	if err := r.db.WithContext(ctx).Model(&models.Integration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     config.IntegrationError,
			"last_error": errMsg,
		}).Error; err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	return nil
}
