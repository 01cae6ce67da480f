package mocks

import (
	"context"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/crm"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) ValidateAPIKey(ctx context.Context, apiKey string) (*crm.Validation, error) {
	args := m.Called(ctx, apiKey)

	v, _ := args.Get(0).(*crm.Validation)
	return v, args.Error(1)
}

func (m *ProviderMock) FetchCompanies(ctx context.Context, apiKey string, offset int) (*crm.CompanyPage, error) {
	args := m.Called(ctx, apiKey, offset)

	page, _ := args.Get(0).(*crm.CompanyPage)
	return page, args.Error(1)
}

func (m *ProviderMock) FetchPeople(ctx context.Context, apiKey string, offset int) (*crm.PersonPage, error) {
	args := m.Called(ctx, apiKey, offset)

	page, _ := args.Get(0).(*crm.PersonPage)
	return page, args.Error(1)
}

func (m *ProviderMock) FetchLists(ctx context.Context, apiKey string) ([]crm.List, error) {
	args := m.Called(ctx, apiKey)

	lists, _ := args.Get(0).([]crm.List)
	return lists, args.Error(1)
}

func (m *ProviderMock) FetchListEntries(ctx context.Context, apiKey, listID string, offset int) (*crm.EntryPage, error) {
	args := m.Called(ctx, apiKey, listID, offset)

	page, _ := args.Get(0).(*crm.EntryPage)
	return page, args.Error(1)
}

func (m *ProviderMock) FetchRecordByID(ctx context.Context, apiKey string, recordType config.RecordType, recordID string) (*crm.FetchedRecord, error) {
	args := m.Called(ctx, apiKey, recordType, recordID)

	rec, _ := args.Get(0).(*crm.FetchedRecord)
	return rec, args.Error(1)
}
