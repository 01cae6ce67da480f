package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/crm"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	repo    RepoInterface
	resolve ProviderResolver
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo RepoInterface, resolve ProviderResolver) *Service {
	if resolve == nil {
		resolve = crm.ForName
	}
	return &Service{repo: repo, resolve: resolve}
}

// Connect validates the API key against the provider and stores the
// integration. An invalid key is a normal response, not an HTTP error, so
// the settings UI can show it inline.
func (s *Service) Connect(ctx context.Context, userID uint, req *dto.ConnectIntegrationDTO) (*dto.ConnectIntegrationResponse, error) {
	provider, err := s.resolve(req.Provider)
	if err != nil {
		return nil, common.Errf(http.StatusBadRequest, "%v", err)
	}

	validation, err := provider.ValidateAPIKey(ctx, req.APIKey)
	if err != nil {
		return nil, common.Errf(http.StatusBadGateway, "key validation failed: %v", err)
	}
	if !validation.Valid {
		return &dto.ConnectIntegrationResponse{Success: false, Error: validation.Error}, nil
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = validation.WorkspaceName
	}
	if displayName == "" {
		displayName = fmt.Sprintf("%s workspace", req.Provider)
	}

	integ := &models.Integration{
		UserID:      userID,
		Provider:    req.Provider,
		DisplayName: displayName,
		APIKey:      req.APIKey,
		Status:      string(config.IntegrationConnected),
	}
	if validation.WorkspaceName != "" {
		meta, _ := json.Marshal(map[string]string{"workspaceName": validation.WorkspaceName})
		integ.Metadata = datatypes.JSON(meta)
	}
	if err := s.repo.Upsert(ctx, integ); err != nil {
		return nil, common.MapRepoError(err, "failed to save integration")
	}

	return &dto.ConnectIntegrationResponse{Success: true, WorkspaceName: validation.WorkspaceName}, nil
}

func (s *Service) List(ctx context.Context, userID uint) ([]dto.IntegrationResponseDTO, error) {
	integs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, common.MapRepoError(err, "failed to list integrations")
	}
	out := make([]dto.IntegrationResponseDTO, 0, len(integs))
	for i := range integs {
		out = append(out, toDTO(&integs[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id uint) (*dto.IntegrationResponseDTO, error) {
	integ, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toDTO(integ)
	return &resp, nil
}

func (s *Service) Disconnect(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Disconnect(ctx, id); err != nil {
		return common.MapRepoError(err, "failed to disconnect integration")
	}
	return nil
}

func (s *Service) owned(ctx context.Context, userID, id uint) (*models.Integration, error) {
	integ, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("integration")
		}
		return nil, common.MapRepoError(err, "failed to load integration")
	}
	if integ.UserID != userID {
		return nil, common.NotFound("integration")
	}
	return integ, nil
}

// toDTO strips the API key; it never leaves the service layer.
func toDTO(i *models.Integration) dto.IntegrationResponseDTO {
	out := dto.IntegrationResponseDTO{
		ID:           i.ID,
		Provider:     i.Provider,
		DisplayName:  i.DisplayName,
		Status:       i.Status,
		LastSyncedAt: i.LastSyncedAt,
		LastError:    i.LastError,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
	if len(i.Metadata) > 0 {
		out.Metadata = json.RawMessage(i.Metadata)
	}
	return out
}
