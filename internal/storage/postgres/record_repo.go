package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Get retrieves a single CRM record by its ID.
func (r *RecordRepository) Get(ctx context.Context, id uint) (*models.CrmRecord, error) {
	var rec models.CrmRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("record not found: %w", err)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

// GetByExternalID looks a record up by its provider identity.
func (r *RecordRepository) GetByExternalID(ctx context.Context, integrationID uint, externalID string) (*models.CrmRecord, error) {
	var rec models.CrmRecord
	if err := r.db.WithContext(ctx).
		Where("integration_id = ? AND external_id = ?", integrationID, externalID).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("record not found: %w", err)
		}
		return nil, fmt.Errorf("get record by external id: %w", err)
	}
	return &rec, nil
}

// ListByType returns a user's records of one type.
func (r *RecordRepository) ListByType(ctx context.Context, userID uint, recordType config.RecordType, limit int) ([]models.CrmRecord, error) {
	var recs []models.CrmRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND record_type = ?", userID, recordType).
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}

// Search performs a case-insensitive substring match over name and email.
func (r *RecordRepository) Search(ctx context.Context, userID uint, term string, recordType config.RecordType, limit int) ([]models.CrmRecord, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if recordType != "" {
		q = q.Where("record_type = ?", recordType)
	}
	pattern := "%" + strings.ToLower(term) + "%"
	var recs []models.CrmRecord
	if err := q.
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	return recs, nil
}

// ListByList returns the user's records that hold a membership of the given
// provider list. Memberships live in a JSON column, so matching happens
// in Go after a user-scoped fetch.
func (r *RecordRepository) ListByList(ctx context.Context, userID uint, listID string, limit int) ([]models.CrmRecord, error) {
	var recs []models.CrmRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list records by list: %w", err)
	}

	out := make([]models.CrmRecord, 0)
	for _, rec := range recs {
		if recordInList(&rec, listID) {
			out = append(out, rec)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func recordInList(rec *models.CrmRecord, listID string) bool {
	if len(rec.ListMemberships) == 0 {
		return false
	}
	var memberships []models.ListMembership
	if err := json.Unmarshal(rec.ListMemberships, &memberships); err != nil {
		return false
	}
	for _, m := range memberships {
		if m.ListID == listID {
			return true
		}
	}
	return false
}

// Upsert inserts or refreshes a record keyed by (integrationID, externalID).
// Existing rows keep their enrichment state; only provider-owned fields are
// overwritten.
func (r *RecordRepository) Upsert(ctx context.Context, rec *models.CrmRecord) error {
	var existing models.CrmRecord
	err := r.db.WithContext(ctx).
		Where("integration_id = ? AND external_id = ?", rec.IntegrationID, rec.ExternalID).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("upsert record lookup: %w", err)
		}
		if rec.EnrichmentStatus == "" {
			rec.EnrichmentStatus = string(config.EnrichmentNone)
		}
		if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
			return fmt.Errorf("upsert record insert: %w", err)
		}
		return nil
	}

	if err := r.db.WithContext(ctx).Model(&existing).
		Updates(map[string]any{
			"name":           rec.Name,
			"email":          rec.Email,
			"raw_data":       rec.RawData,
			"last_synced_at": rec.LastSyncedAt,
		}).Error; err != nil {
		return fmt.Errorf("upsert record update: %w", err)
	}
	rec.ID = existing.ID
	return nil
}

// AddListMembership appends a (listId, entryId) membership to the record's
// JSON membership list unless it is already present.
func (r *RecordRepository) AddListMembership(ctx context.Context, integrationID uint, externalID string, membership models.ListMembership) error {
	rec, err := r.GetByExternalID(ctx, integrationID, externalID)
	if err != nil {
		return err
	}

	var memberships []models.ListMembership
	if len(rec.ListMemberships) > 0 {
		if err := json.Unmarshal(rec.ListMemberships, &memberships); err != nil {
			return fmt.Errorf("decode list memberships: %w", err)
		}
	}
	for _, m := range memberships {
		if m.ListID == membership.ListID && m.EntryID == membership.EntryID {
			return nil
		}
	}
	memberships = append(memberships, membership)

	encoded, err := json.Marshal(memberships)
	if err != nil {
		return fmt.Errorf("encode list memberships: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.CrmRecord{}).
		Where("id = ?", rec.ID).
		Update("list_memberships", datatypes.JSON(encoded)).Error; err != nil {
		return fmt.Errorf("add list membership: %w", err)
	}
	return nil
}

// UpdateEnrichmentStatus sets only the denormalized status field.
func (r *RecordRepository) UpdateEnrichmentStatus(ctx context.Context, id uint, status config.EnrichmentStatus) error {
	if err := r.db.WithContext(ctx).Model(&models.CrmRecord{}).
		Where("id = ?", id).
		Update("enrichment_status", status).Error; err != nil {
		return fmt.Errorf("update enrichment status: %w", err)
	}
	return nil
}

// CompleteEnrichment reconciles a terminal job outcome into the record.
// EnrichedData and EnrichedAt are only written on success, preserving the
// invariant that enrichedData is present iff status is enriched.
func (r *RecordRepository) CompleteEnrichment(ctx context.Context, id uint, status config.EnrichmentStatus, data datatypes.JSON, at time.Time) error {
	updates := map[string]any{"enrichment_status": status}
	if status == config.EnrichmentEnriched && data != nil {
		updates["enriched_data"] = data
		updates["enriched_at"] = at
	}
	if err := r.db.WithContext(ctx).Model(&models.CrmRecord{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("complete enrichment: %w", err)
	}
	return nil
}
