package sync

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bob-rietveld/unheard-v3/common"
	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/crm"
	"github.com/bob-rietveld/unheard-v3/internal/dto"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BatchSize bounds how many records are written between list-membership
// updates, keeping partial progress visible during long syncs.
const BatchSize = 25

// Service pulls records, lists and memberships out of a connected CRM
// integration into local storage. Provider failures mid-sync are recorded
// on the integration and reported in the response body, not as HTTP errors,
// because partial syncs are expected and retryable.
type Service struct {
	integrations IntegrationRepoInterface
	records      RecordWriterInterface
	resolve      ProviderResolver
}

var _ ServiceInterface = (*Service)(nil)

func NewService(integrations IntegrationRepoInterface, records RecordWriterInterface, resolve ProviderResolver) *Service {
	if resolve == nil {
		resolve = crm.ForName
	}
	return &Service{integrations: integrations, records: records, resolve: resolve}
}

// SyncAll pulls every company, person, list, and list membership from the
// provider workspace.
func (s *Service) SyncAll(ctx context.Context, userID, integrationID uint) (*dto.SyncResponse, error) {
	integ, provider, err := s.connected(ctx, userID, integrationID)
	if err != nil {
		return nil, err
	}

	total := 0

	// Companies, then people, so person records can reference synced
	// companies by name.
	offset := 0
	for {
		page, err := provider.FetchCompanies(ctx, integ.APIKey, offset)
		if err != nil {
			return s.failSync(ctx, integrationID, err)
		}
		for i := range page.Records {
			c := page.Records[i]
			rec := &models.CrmRecord{
				UserID:        userID,
				IntegrationID: integrationID,
				ExternalID:    c.ExternalID,
				RecordType:    string(config.RecordTypeCompany),
				Name:          c.Name,
				RawData:       datatypes.JSON(c.RawData),
			}
			if err := s.records.Upsert(ctx, rec); err != nil {
				return s.failSync(ctx, integrationID, err)
			}
		}
		total += len(page.Records)
		if !page.HasMore {
			break
		}
		offset = page.NextOffset
	}

	offset = 0
	for {
		page, err := provider.FetchPeople(ctx, integ.APIKey, offset)
		if err != nil {
			return s.failSync(ctx, integrationID, err)
		}
		for i := range page.Records {
			p := page.Records[i]
			rec := &models.CrmRecord{
				UserID:        userID,
				IntegrationID: integrationID,
				ExternalID:    p.ExternalID,
				RecordType:    string(config.RecordTypePerson),
				Name:          p.Name,
				Email:         p.Email,
				RawData:       datatypes.JSON(p.RawData),
			}
			if err := s.records.Upsert(ctx, rec); err != nil {
				return s.failSync(ctx, integrationID, err)
			}
		}
		total += len(page.Records)
		if !page.HasMore {
			break
		}
		offset = page.NextOffset
	}

	lists, err := provider.FetchLists(ctx, integ.APIKey)
	if err != nil {
		return s.failSync(ctx, integrationID, err)
	}
	for _, list := range lists {
		if err := s.mergeListMemberships(ctx, provider, integ, list.ID, list.Name, entrySource(list)); err != nil {
			return s.failSync(ctx, integrationID, err)
		}
	}

	if err := s.integrations.MarkSynced(ctx, integrationID, time.Now()); err != nil {
		return nil, common.MapRepoError(err, "failed to record sync completion")
	}
	return &dto.SyncResponse{Success: true, TotalSynced: total}, nil
}

// SyncList pulls one list's entries, fetches each member record by id, and
// merges memberships. Entries whose record vanished upstream are skipped.
func (s *Service) SyncList(ctx context.Context, userID, integrationID uint, req *dto.SyncListDTO) (*dto.SyncResponse, error) {
	integ, provider, err := s.connected(ctx, userID, integrationID)
	if err != nil {
		return nil, err
	}

	source := req.ListID
	if req.ListAPISlug != "" {
		source = req.ListAPISlug
	}

	var entries []crm.ListEntry
	offset := 0
	for {
		page, err := provider.FetchListEntries(ctx, integ.APIKey, source, offset)
		if err != nil {
			return s.failSync(ctx, integrationID, err)
		}
		entries = append(entries, page.Entries...)
		if !page.HasMore {
			break
		}
		offset = page.NextOffset
	}

	total := 0
	for start := 0; start < len(entries); start += BatchSize {
		end := min(start+BatchSize, len(entries))
		batch := entries[start:end]

		for _, entry := range batch {
			fetched, err := provider.FetchRecordByID(ctx, integ.APIKey, entry.RecordType, entry.RecordID)
			if err != nil {
				return s.failSync(ctx, integrationID, err)
			}
			if fetched == nil {
				continue
			}
			rec := &models.CrmRecord{
				UserID:        userID,
				IntegrationID: integrationID,
				ExternalID:    fetched.ExternalID,
				RecordType:    string(entry.RecordType),
				Name:          fetched.Name,
				Email:         fetched.Email,
				RawData:       datatypes.JSON(fetched.RawData),
			}
			if err := s.records.Upsert(ctx, rec); err != nil {
				return s.failSync(ctx, integrationID, err)
			}
			total++
		}

		for _, entry := range batch {
			membership := models.ListMembership{ListID: req.ListID, ListName: req.ListName, EntryID: entry.EntryID}
			err := s.records.AddListMembership(ctx, integrationID, entry.RecordID, membership)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return s.failSync(ctx, integrationID, err)
			}
		}
	}

	if err := s.integrations.MarkSynced(ctx, integrationID, time.Now()); err != nil {
		return nil, common.MapRepoError(err, "failed to record sync completion")
	}
	return &dto.SyncResponse{Success: true, TotalSynced: total}, nil
}

// AvailableLists proxies the provider's list catalog for the sync UI.
func (s *Service) AvailableLists(ctx context.Context, userID, integrationID uint) ([]dto.ListResponseDTO, error) {
	integ, provider, err := s.connected(ctx, userID, integrationID)
	if err != nil {
		return nil, err
	}

	lists, err := provider.FetchLists(ctx, integ.APIKey)
	if err != nil {
		return nil, common.Errf(http.StatusBadGateway, "failed to fetch lists: %v", err)
	}

	out := make([]dto.ListResponseDTO, 0, len(lists))
	for _, l := range lists {
		out = append(out, dto.ListResponseDTO{
			ID:           l.ID,
			Name:         l.Name,
			APISlug:      l.APISlug,
			ParentObject: l.ParentObject,
		})
	}
	return out, nil
}

func (s *Service) mergeListMemberships(ctx context.Context, provider crm.Provider, integ *models.Integration, listID, listName, source string) error {
	offset := 0
	for {
		page, err := provider.FetchListEntries(ctx, integ.APIKey, source, offset)
		if err != nil {
			return err
		}
		// Entries whose record is not in the local store (never synced, or
		// vanished upstream) are skipped rather than failing the sync.
		for _, entry := range page.Entries {
			membership := models.ListMembership{ListID: listID, ListName: listName, EntryID: entry.EntryID}
			err := s.records.AddListMembership(ctx, integ.ID, entry.RecordID, membership)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		if !page.HasMore {
			return nil
		}
		offset = page.NextOffset
	}
}

func (s *Service) connected(ctx context.Context, userID, integrationID uint) (*models.Integration, crm.Provider, error) {
	integ, err := s.integrations.Get(ctx, integrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, common.NotFound("integration")
		}
		return nil, nil, common.MapRepoError(err, "failed to load integration")
	}
	if integ.UserID != userID {
		return nil, nil, common.NotFound("integration")
	}
	if integ.Status != string(config.IntegrationConnected) {
		return nil, nil, common.Errf(http.StatusConflict, "integration not connected")
	}

	provider, err := s.resolve(integ.Provider)
	if err != nil {
		return nil, nil, common.Errf(http.StatusConflict, "%v", err)
	}
	return integ, provider, nil
}

// failSync records the failure on the integration and reports it in the
// response body. Callers still get a 2xx; retrying the sync is the remedy.
func (s *Service) failSync(ctx context.Context, integrationID uint, cause error) (*dto.SyncResponse, error) {
	_ = s.integrations.MarkSyncError(ctx, integrationID, cause.Error())
	return &dto.SyncResponse{Success: false, Error: cause.Error()}, nil
}

func entrySource(list crm.List) string {
	if list.APISlug != "" {
		return list.APISlug
	}
	return list.ID
}
