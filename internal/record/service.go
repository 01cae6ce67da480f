package record

import (
	"context"
	"errors"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/gorm"
)

const (
	listLimit   = 100
	searchLimit = 50
)

type Service struct {
	repo RepoInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo RepoInterface) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, userID, id uint) (*dto.RecordResponseDTO, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("record")
		}
		return nil, common.MapRepoError(err, "failed to load record")
	}
	if rec.UserID != userID {
		return nil, common.NotFound("record")
	}
	resp := dto.FromRecord(rec)
	return &resp, nil
}

func (s *Service) ListByType(ctx context.Context, userID uint, recordType config.RecordType) ([]dto.RecordResponseDTO, error) {
	recs, err := s.repo.ListByType(ctx, userID, recordType, listLimit)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to list records")
	}
	return toDTOs(recs), nil
}

func (s *Service) Search(ctx context.Context, userID uint, term string, recordType config.RecordType) ([]dto.RecordResponseDTO, error) {
	recs, err := s.repo.Search(ctx, userID, term, recordType, searchLimit)
	if err != nil {
		return nil, common.MapRepoError(err, "search failed")
	}
	return toDTOs(recs), nil
}

// ListByList returns records holding a membership of the given CRM list.
func (s *Service) ListByList(ctx context.Context, userID uint, listID string) ([]dto.RecordResponseDTO, error) {
	recs, err := s.repo.ListByList(ctx, userID, listID, listLimit)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to list records")
	}
	return toDTOs(recs), nil
}

func toDTOs(recs []models.CrmRecord) []dto.RecordResponseDTO {
	out := make([]dto.RecordResponseDTO, 0, len(recs))
	for i := range recs {
		out = append(out, dto.FromRecord(&recs[i]))
	}
	return out
}
