package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
)

const (
	attioBaseURL  = "https://api.attio.com/v2"
	attioPageSize = 100
)

// Attio talks to the Attio v2 REST API. Query endpoints are POSTs with an
// offset-based page cursor in the body.
type Attio struct {
	baseURL string
	client  *http.Client
}

var _ Provider = (*Attio)(nil)

// NewAttio builds an Attio client. An empty baseURL selects the production
// API.
func NewAttio(baseURL string) *Attio {
	if baseURL == "" {
		baseURL = attioBaseURL
	}
	return &Attio{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type attioRecord struct {
	ID     map[string]string            `json:"id"`
	Values map[string][]json.RawMessage `json:"values"`
}

func (a *Attio) ValidateAPIKey(ctx context.Context, apiKey string) (*Validation, error) {
	resp, err := a.do(ctx, apiKey, http.MethodGet, "/self", nil)
	if err != nil {
		return &Validation{Valid: false, Error: fmt.Sprintf("Connection failed: %v", err)}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &Validation{Valid: false, Error: "Invalid API key"}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Validation{Valid: false, Error: fmt.Sprintf("Attio API error: %d", resp.StatusCode)}, nil
	}

	var body struct {
		Data struct {
			Workspace struct {
				Name string `json:"name"`
			} `json:"workspace"`
		} `json:"data"`
	}
	workspace := "Attio Workspace"
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Data.Workspace.Name != "" {
		workspace = body.Data.Workspace.Name
	}
	return &Validation{Valid: true, WorkspaceName: workspace}, nil
}

func (a *Attio) FetchCompanies(ctx context.Context, apiKey string, offset int) (*CompanyPage, error) {
	records, err := a.queryRecords(ctx, apiKey, "companies", offset)
	if err != nil {
		return nil, fmt.Errorf("attio companies: %w", err)
	}

	page := &CompanyPage{NextOffset: offset + len(records), HasMore: len(records) >= attioPageSize}
	for _, rec := range records {
		raw, _ := json.Marshal(rec)
		name := extractValue(rec.Values, "name")
		if name == "" {
			name = "Unknown Company"
		}
		page.Records = append(page.Records, NormalizedCompany{
			ExternalID:  rec.ID["record_id"],
			Name:        name,
			Domain:      extractValue(rec.Values, "domains"),
			Description: extractValue(rec.Values, "description"),
			RawData:     raw,
		})
	}
	return page, nil
}

func (a *Attio) FetchPeople(ctx context.Context, apiKey string, offset int) (*PersonPage, error) {
	records, err := a.queryRecords(ctx, apiKey, "people", offset)
	if err != nil {
		return nil, fmt.Errorf("attio people: %w", err)
	}

	page := &PersonPage{NextOffset: offset + len(records), HasMore: len(records) >= attioPageSize}
	for _, rec := range records {
		raw, _ := json.Marshal(rec)
		name := extractValue(rec.Values, "name")
		if name == "" {
			name = "Unknown Person"
		}
		page.Records = append(page.Records, NormalizedPerson{
			ExternalID:  rec.ID["record_id"],
			Name:        name,
			Email:       extractEmail(rec.Values),
			Title:       extractValue(rec.Values, "job_title"),
			CompanyName: extractValue(rec.Values, "company"),
			LinkedinURL: extractLinkedin(rec.Values),
			RawData:     raw,
		})
	}
	return page, nil
}

func (a *Attio) FetchLists(ctx context.Context, apiKey string) ([]List, error) {
	resp, err := a.do(ctx, apiKey, http.MethodGet, "/lists", nil)
	if err != nil {
		return nil, fmt.Errorf("attio lists: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("attio lists: status %d", resp.StatusCode)
	}

	var body struct {
		Data []struct {
			ID           map[string]string `json:"id"`
			Name         string            `json:"name"`
			APISlug      string            `json:"api_slug"`
			ParentObject []string          `json:"parent_object"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("attio lists: decode: %w", err)
	}

	lists := make([]List, 0, len(body.Data))
	for _, l := range body.Data {
		list := List{ID: l.ID["list_id"], Name: l.Name, APISlug: l.APISlug}
		if len(l.ParentObject) > 0 {
			list.ParentObject = l.ParentObject[0]
		}
		lists = append(lists, list)
	}
	return lists, nil
}

func (a *Attio) FetchListEntries(ctx context.Context, apiKey, listID string, offset int) (*EntryPage, error) {
	payload := map[string]any{"limit": attioPageSize, "offset": offset}
	resp, err := a.do(ctx, apiKey, http.MethodPost, "/lists/"+listID+"/entries/query", payload)
	if err != nil {
		return nil, fmt.Errorf("attio list entries: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("attio list entries: status %d", resp.StatusCode)
	}

	var body struct {
		Data []struct {
			ID             map[string]string `json:"id"`
			ParentRecordID string            `json:"parent_record_id"`
			ParentObject   string            `json:"parent_object"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("attio list entries: decode: %w", err)
	}

	page := &EntryPage{NextOffset: offset + len(body.Data), HasMore: len(body.Data) >= attioPageSize}
	for _, e := range body.Data {
		recordType := config.RecordTypePerson
		if e.ParentObject == "companies" {
			recordType = config.RecordTypeCompany
		}
		page.Entries = append(page.Entries, ListEntry{
			EntryID:    e.ID["entry_id"],
			RecordID:   e.ParentRecordID,
			RecordType: recordType,
		})
	}
	return page, nil
}

// FetchRecordByID returns nil when the record no longer exists; a deleted
// record during list sync is not an error.
func (a *Attio) FetchRecordByID(ctx context.Context, apiKey string, recordType config.RecordType, recordID string) (*FetchedRecord, error) {
	slug := "people"
	if recordType == config.RecordTypeCompany {
		slug = "companies"
	}
	resp, err := a.do(ctx, apiKey, http.MethodGet, "/objects/"+slug+"/records/"+recordID, nil)
	if err != nil {
		return nil, fmt.Errorf("attio record: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("attio record: status %d", resp.StatusCode)
	}

	var body struct {
		Data attioRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("attio record: decode: %w", err)
	}

	raw, _ := json.Marshal(body.Data)
	name := extractValue(body.Data.Values, "name")
	if name == "" {
		if recordType == config.RecordTypeCompany {
			name = "Unknown Company"
		} else {
			name = "Unknown Person"
		}
	}
	out := &FetchedRecord{
		ExternalID: body.Data.ID["record_id"],
		Name:       name,
		RawData:    raw,
	}
	if recordType == config.RecordTypePerson {
		out.Email = extractEmail(body.Data.Values)
	}
	return out, nil
}

func (a *Attio) queryRecords(ctx context.Context, apiKey, objectSlug string, offset int) ([]attioRecord, error) {
	payload := map[string]any{
		"limit":  attioPageSize,
		"offset": offset,
		"sorts":  []map[string]string{{"direction": "asc", "attribute": "name"}},
	}
	resp, err := a.do(ctx, apiKey, http.MethodPost, "/objects/"+objectSlug+"/records/query", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body struct {
		Data []attioRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return body.Data, nil
}

func (a *Attio) do(ctx context.Context, apiKey, method, path string, payload any) (*http.Response, error) {
	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	return a.client.Do(req)
}

// extractValue pulls the first usable string out of an Attio attribute.
// Attio attributes are arrays of typed objects; text fields carry value,
// person names carry full_name, domain attributes carry domain.
func extractValue(values map[string][]json.RawMessage, key string) string {
	arr := values[key]
	if len(arr) == 0 {
		return ""
	}
	var first map[string]any
	if err := json.Unmarshal(arr[0], &first); err != nil {
		return ""
	}
	for _, field := range []string{"value", "full_name", "domain"} {
		if s, ok := first[field].(string); ok {
			return s
		}
	}
	return ""
}

func extractEmail(values map[string][]json.RawMessage) string {
	arr := values["email_addresses"]
	if len(arr) == 0 {
		return ""
	}
	var first struct {
		EmailAddress string `json:"email_address"`
	}
	if err := json.Unmarshal(arr[0], &first); err != nil {
		return ""
	}
	return first.EmailAddress
}

func extractLinkedin(values map[string][]json.RawMessage) string {
	for _, key := range []string{"linkedin", "linkedin_url", "social_links"} {
		arr := values[key]
		if len(arr) == 0 {
			continue
		}
		var first map[string]any
		if err := json.Unmarshal(arr[0], &first); err != nil {
			continue
		}
		for _, field := range []string{"value", "url", "original_url"} {
			if s, ok := first[field].(string); ok && strings.Contains(s, "linkedin") {
				return s
			}
		}
	}
	return ""
}
