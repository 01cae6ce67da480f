package segment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/gorm"
)

const defaultMembersLimit = 200

type Service struct {
	repo    RepoInterface
	records RecordReaderInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo RepoInterface, records RecordReaderInterface) *Service {
	return &Service{repo: repo, records: records}
}

func (s *Service) Create(ctx context.Context, userID uint, req *dto.SegmentCreateDTO) (*dto.SegmentResponseDTO, error) {
	seg := &models.Segment{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		RecordType:  req.RecordType,
	}
	if err := s.repo.Create(ctx, seg); err != nil {
		return nil, common.MapRepoError(err, "failed to create segment")
	}
	resp := toDTO(seg)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, userID uint) ([]dto.SegmentResponseDTO, error) {
	segs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to list segments")
	}
	out := make([]dto.SegmentResponseDTO, 0, len(segs))
	for i := range segs {
		out = append(out, toDTO(&segs[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id uint) (*dto.SegmentResponseDTO, error) {
	seg, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toDTO(seg)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, userID, id uint, req *dto.SegmentUpdateDTO) (*dto.SegmentResponseDTO, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, common.MapRepoError(err, "failed to update segment")
		}
	}

	seg, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to load segment")
	}
	resp := toDTO(seg)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return common.MapRepoError(err, "failed to delete segment")
	}
	return nil
}

// AddMembers inserts the given records, skipping ones already present, and
// refreshes the cached member count.
func (s *Service) AddMembers(ctx context.Context, userID, id uint, recordIDs []uint) (*dto.MembersChangedResponse, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	added := 0
	now := time.Now()
	for _, recordID := range recordIDs {
		member := &models.SegmentMember{SegmentID: id, CrmRecordID: recordID, AddedAt: now}
		ok, err := s.repo.AddMember(ctx, id, recordID, member)
		if err != nil {
			return nil, common.MapRepoError(err, "failed to add segment member")
		}
		if ok {
			added++
		}
	}

	if _, err := s.repo.RefreshMemberCount(ctx, id); err != nil {
		return nil, common.MapRepoError(err, "failed to refresh member count")
	}
	return &dto.MembersChangedResponse{Added: added}, nil
}

func (s *Service) RemoveMembers(ctx context.Context, userID, id uint, recordIDs []uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	for _, recordID := range recordIDs {
		if err := s.repo.RemoveMember(ctx, id, recordID); err != nil {
			return common.MapRepoError(err, "failed to remove segment member")
		}
	}

	if _, err := s.repo.RefreshMemberCount(ctx, id); err != nil {
		return common.MapRepoError(err, "failed to refresh member count")
	}
	return nil
}

// CreateFromList builds a segment from the synced records of one CRM list.
// The segment's record type is the members' type, or mixed when the list
// holds both companies and people.
func (s *Service) CreateFromList(ctx context.Context, userID uint, req *dto.SegmentFromListDTO) (*dto.SegmentFromListResponse, error) {
	records, err := s.records.ListByList(ctx, userID, req.ListID, 0)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to load list records")
	}
	if len(records) == 0 {
		return nil, common.Errf(http.StatusConflict, "no synced records in this list. Sync the list first.")
	}

	recordType := config.RecordType(records[0].RecordType)
	for i := range records {
		if config.RecordType(records[i].RecordType) != recordType {
			recordType = config.RecordTypeMixed
			break
		}
	}

	seg := &models.Segment{
		UserID:      userID,
		Name:        req.ListName,
		RecordType:  string(recordType),
		MemberCount: len(records),
	}
	if err := s.repo.Create(ctx, seg); err != nil {
		return nil, common.MapRepoError(err, "failed to create segment")
	}

	now := time.Now()
	for i := range records {
		member := &models.SegmentMember{SegmentID: seg.ID, CrmRecordID: records[i].ID, AddedAt: now}
		if _, err := s.repo.AddMember(ctx, seg.ID, records[i].ID, member); err != nil {
			return nil, common.MapRepoError(err, "failed to add segment member")
		}
	}

	return &dto.SegmentFromListResponse{SegmentID: seg.ID, MemberCount: len(records)}, nil
}

func (s *Service) Members(ctx context.Context, userID, id uint, limit int) ([]dto.RecordResponseDTO, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMembersLimit
	}

	records, err := s.repo.Members(ctx, id, limit)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to load segment members")
	}
	out := make([]dto.RecordResponseDTO, 0, len(records))
	for i := range records {
		out = append(out, dto.FromRecord(&records[i]))
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, userID, id uint) (*models.Segment, error) {
	seg, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("segment")
		}
		return nil, common.MapRepoError(err, "failed to load segment")
	}
	if seg.UserID != userID {
		return nil, common.NotFound("segment")
	}
	return seg, nil
}

func toDTO(seg *models.Segment) dto.SegmentResponseDTO {
	return dto.SegmentResponseDTO{
		ID:          seg.ID,
		Name:        seg.Name,
		Description: seg.Description,
		RecordType:  seg.RecordType,
		MemberCount: seg.MemberCount,
		CreatedAt:   seg.CreatedAt,
		UpdatedAt:   seg.UpdatedAt,
	}
}
