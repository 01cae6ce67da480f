package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/gorm"
)

type SegmentRepository struct {
	db *gorm.DB
}

func NewSegmentRepository(db *gorm.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

func (r *SegmentRepository) Create(ctx context.Context, seg *models.Segment) error {
	if err := r.db.WithContext(ctx).Create(seg).Error; err != nil {
		return fmt.Errorf("create segment: %w", err)
	}
	return nil
}

func (r *SegmentRepository) Get(ctx context.Context, id uint) (*models.Segment, error) {
	var seg models.Segment
	if err := r.db.WithContext(ctx).First(&seg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("segment not found: %w", err)
		}
		return nil, fmt.Errorf("get segment: %w", err)
	}
	return &seg, nil
}

func (r *SegmentRepository) ListForUser(ctx context.Context, userID uint) ([]models.Segment, error) {
	var segs []models.Segment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&segs).Error; err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	return segs, nil
}

func (r *SegmentRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if err := r.db.WithContext(ctx).Model(&models.Segment{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update segment: %w", err)
	}
	return nil
}

// Delete removes the segment and its memberships in one transaction.
func (r *SegmentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("segment_id = ?", id).Delete(&models.SegmentMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Segment{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("delete segment: %w", err)
	}
	return nil
}

// AddMember inserts a membership unless it already exists. Returns whether
// a row was actually created.
func (r *SegmentRepository) AddMember(ctx context.Context, segmentID, recordID uint, member *models.SegmentMember) (bool, error) {
	var existing models.SegmentMember
	err := r.db.WithContext(ctx).
		Where("segment_id = ? AND crm_record_id = ?", segmentID, recordID).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("add member lookup: %w", err)
	}

	member.SegmentID = segmentID
	member.CrmRecordID = recordID
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return false, fmt.Errorf("add member: %w", err)
	}
	return true, nil
}

func (r *SegmentRepository) RemoveMember(ctx context.Context, segmentID, recordID uint) error {
	if err := r.db.WithContext(ctx).
		Where("segment_id = ? AND crm_record_id = ?", segmentID, recordID).
		Delete(&models.SegmentMember{}).Error; err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// RefreshMemberCount recomputes the denormalized member count.
func (r *SegmentRepository) RefreshMemberCount(ctx context.Context, segmentID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SegmentMember{}).
		Where("segment_id = ?", segmentID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Segment{}).
		Where("id = ?", segmentID).
		Update("member_count", count).Error; err != nil {
		return 0, fmt.Errorf("refresh member count: %w", err)
	}
	return int(count), nil
}

// Members returns the CRM records behind a segment's memberships. A limit
// <= 0 returns them all.
func (r *SegmentRepository) Members(ctx context.Context, segmentID uint, limit int) ([]models.CrmRecord, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN segment_members ON segment_members.crm_record_id = crm_records.id").
		Where("segment_members.segment_id = ?", segmentID)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []models.CrmRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("segment members: %w", err)
	}
	return recs, nil
}
