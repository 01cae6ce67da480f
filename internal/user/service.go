package user

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
)

type Service struct {
	repo RepoInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo RepoInterface) *Service {
	return &Service{repo: repo}
}

// Upsert creates or refreshes the profile identified by the caller's token.
// This is the only write path for users; sign-in flows call it on every
// session start.
func (s *Service) Upsert(ctx context.Context, tokenIdentifier string, req *dto.UserUpsertDTO) (*dto.UserResponseDTO, error) {
	u := &models.User{
		TokenIdentifier: tokenIdentifier,
		Email:           req.Email,
		Name:            req.Name,
		AvatarURL:       req.AvatarURL,
	}
	if err := s.repo.Upsert(ctx, u); err != nil {
		return nil, common.MapRepoError(err, "failed to save user")
	}
	return toDTO(u), nil
}

func (s *Service) Current(ctx context.Context, u *models.User) *dto.UserResponseDTO {
	return toDTO(u)
}

func toDTO(u *models.User) *dto.UserResponseDTO {
	return &dto.UserResponseDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
