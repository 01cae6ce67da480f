package crm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bob-rietveld/unheard-v3/internal/config"
)

// NormalizedCompany is a provider-agnostic company record. RawData keeps the
// provider payload verbatim for downstream hint extraction.
type NormalizedCompany struct {
	ExternalID  string
	Name        string
	Domain      string
	Description string
	RawData     json.RawMessage
}

// NormalizedPerson is a provider-agnostic person record.
type NormalizedPerson struct {
	ExternalID  string
	Name        string
	Email       string
	Title       string
	CompanyName string
	LinkedinURL string
	RawData     json.RawMessage
}

// List is one list (or collection) defined in the CRM workspace.
type List struct {
	ID           string
	Name         string
	APISlug      string
	ParentObject string
}

// ListEntry ties a CRM record to a list.
type ListEntry struct {
	EntryID    string
	RecordID   string
	RecordType config.RecordType
}

// FetchedRecord is a single record fetched by id, used by list syncing.
type FetchedRecord struct {
	ExternalID string
	Name       string
	Email      string
	RawData    json.RawMessage
}

// CompanyPage is one page of companies with offset-based continuation.
type CompanyPage struct {
	Records    []NormalizedCompany
	HasMore    bool
	NextOffset int
}

// PersonPage is one page of people.
type PersonPage struct {
	Records    []NormalizedPerson
	HasMore    bool
	NextOffset int
}

// EntryPage is one page of list entries.
type EntryPage struct {
	Entries    []ListEntry
	HasMore    bool
	NextOffset int
}

// Validation is the outcome of an API key check. An invalid key is a normal
// result, not an error.
type Validation struct {
	Valid         bool
	WorkspaceName string
	Error         string
}

// Provider abstracts one CRM backend. All calls take the workspace API key
// because keys are per-integration, not per-client.
type Provider interface {
	ValidateAPIKey(ctx context.Context, apiKey string) (*Validation, error)
	FetchCompanies(ctx context.Context, apiKey string, offset int) (*CompanyPage, error)
	FetchPeople(ctx context.Context, apiKey string, offset int) (*PersonPage, error)
	FetchLists(ctx context.Context, apiKey string) ([]List, error)
	FetchListEntries(ctx context.Context, apiKey, listID string, offset int) (*EntryPage, error)
	FetchRecordByID(ctx context.Context, apiKey string, recordType config.RecordType, recordID string) (*FetchedRecord, error)
}

var providers = map[string]Provider{
	"attio": NewAttio(""),
}

// ForName returns the provider registered under the given name.
func ForName(name string) (Provider, error) {
	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown CRM provider: %s", name)
	}
	return p, nil
}
