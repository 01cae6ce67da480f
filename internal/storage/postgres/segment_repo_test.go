package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSegment(t *testing.T, repo *SegmentRepository, userID uint, name string) *models.Segment {
	t.Helper()
	seg := &models.Segment{
		UserID:     userID,
		Name:       name,
		RecordType: string(config.RecordTypeCompany),
	}
	require.NoError(t, repo.Create(context.Background(), seg))
	return seg
}

func TestSegmentRepository_CreateAndGet(t *testing.T) {
	repo := NewSegmentRepository(SetupTestDB(t))

	seg := seedSegment(t, repo, 1, "Q3 targets")

	got, err := repo.Get(context.Background(), seg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q3 targets", got.Name)
	assert.Zero(t, got.MemberCount)

	_, err = repo.Get(context.Background(), 999)
	assert.ErrorContains(t, err, "segment not found")
}

func TestSegmentRepository_AddMemberDedupes(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewSegmentRepository(db)
	records := NewRecordRepository(db)
	ctx := context.Background()

	seg := seedSegment(t, repo, 1, "Q3 targets")
	rec := seedRecord(t, records, 1, "ext-1", "Acme", config.RecordTypeCompany)

	added, err := repo.AddMember(ctx, seg.ID, rec.ID, &models.SegmentMember{AddedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddMember(ctx, seg.ID, rec.ID, &models.SegmentMember{AddedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, added)

	count, err := repo.RefreshMemberCount(ctx, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSegmentRepository_RefreshMemberCount(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewSegmentRepository(db)
	records := NewRecordRepository(db)
	ctx := context.Background()

	seg := seedSegment(t, repo, 1, "Q3 targets")
	for _, ext := range []string{"ext-1", "ext-2", "ext-3"} {
		rec := seedRecord(t, records, 1, ext, "Co "+ext, config.RecordTypeCompany)
		_, err := repo.AddMember(ctx, seg.ID, rec.ID, &models.SegmentMember{AddedAt: time.Now()})
		require.NoError(t, err)
	}

	count, err := repo.RefreshMemberCount(ctx, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := repo.Get(ctx, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.MemberCount)
}

func TestSegmentRepository_MembersLimit(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewSegmentRepository(db)
	records := NewRecordRepository(db)
	ctx := context.Background()

	seg := seedSegment(t, repo, 1, "Q3 targets")
	for _, ext := range []string{"ext-1", "ext-2", "ext-3"} {
		rec := seedRecord(t, records, 1, ext, "Co "+ext, config.RecordTypeCompany)
		_, err := repo.AddMember(ctx, seg.ID, rec.ID, &models.SegmentMember{AddedAt: time.Now()})
		require.NoError(t, err)
	}

	all, err := repo.Members(ctx, seg.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	capped, err := repo.Members(ctx, seg.ID, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestSegmentRepository_RemoveMember(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewSegmentRepository(db)
	records := NewRecordRepository(db)
	ctx := context.Background()

	seg := seedSegment(t, repo, 1, "Q3 targets")
	rec := seedRecord(t, records, 1, "ext-1", "Acme", config.RecordTypeCompany)
	_, err := repo.AddMember(ctx, seg.ID, rec.ID, &models.SegmentMember{AddedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, repo.RemoveMember(ctx, seg.ID, rec.ID))

	members, err := repo.Members(ctx, seg.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestSegmentRepository_DeleteRemovesMemberships(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewSegmentRepository(db)
	records := NewRecordRepository(db)
	ctx := context.Background()

	seg := seedSegment(t, repo, 1, "Q3 targets")
	rec := seedRecord(t, records, 1, "ext-1", "Acme", config.RecordTypeCompany)
	_, err := repo.AddMember(ctx, seg.ID, rec.ID, &models.SegmentMember{AddedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, seg.ID))

	_, err = repo.Get(ctx, seg.ID)
	assert.ErrorContains(t, err, "segment not found")

	var orphans int64
	require.NoError(t, db.Model(&models.SegmentMember{}).
		Where("segment_id = ?", seg.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestSegmentRepository_Update(t *testing.T) {
	repo := NewSegmentRepository(SetupTestDB(t))
	ctx := context.Background()

	seg := seedSegment(t, repo, 1, "Q3 targets")
	require.NoError(t, repo.Update(ctx, seg.ID, map[string]any{
		"name":        "Q4 targets",
		"description": "carry-over",
	}))

	got, err := repo.Get(ctx, seg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q4 targets", got.Name)
	assert.Equal(t, "carry-over", got.Description)
}
