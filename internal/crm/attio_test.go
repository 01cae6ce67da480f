package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForName(t *testing.T) {
	p, err := ForName("attio")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = ForName("salesforce")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown CRM provider")
}

func TestAttioValidateAPIKey(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		wantValid     bool
		wantWorkspace string
		wantError     string
	}{
		{
			name: "valid key with workspace name",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/self", r.URL.Path)
				assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
				w.Write([]byte(`{"data":{"workspace":{"name":"Acme HQ"}}}`))
			},
			wantValid:     true,
			wantWorkspace: "Acme HQ",
		},
		{
			name: "valid key without workspace name",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
			wantValid:     true,
			wantWorkspace: "Attio Workspace",
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantValid: false,
			wantError: "Invalid API key",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantValid: false,
			wantError: "Attio API error: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			v, err := NewAttio(srv.URL).ValidateAPIKey(context.Background(), "key-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, v.Valid)
			if tt.wantWorkspace != "" {
				assert.Equal(t, tt.wantWorkspace, v.WorkspaceName)
			}
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, v.Error)
			}
		})
	}
}

func TestAttioFetchCompanies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/objects/companies/records/query", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 100, body["limit"])
		assert.EqualValues(t, 0, body["offset"])

		w.Write([]byte(`{"data":[
			{"id":{"record_id":"c-1"},"values":{
				"name":[{"value":"Acme Corp"}],
				"domains":[{"domain":"acme.io"}],
				"description":[{"value":"Widgets"}]}},
			{"id":{"record_id":"c-2"},"values":{}}
		]}`))
	}))
	defer srv.Close()

	page, err := NewAttio(srv.URL).FetchCompanies(context.Background(), "key", 0)
	require.NoError(t, err)

	require.Len(t, page.Records, 2)
	assert.Equal(t, "c-1", page.Records[0].ExternalID)
	assert.Equal(t, "Acme Corp", page.Records[0].Name)
	assert.Equal(t, "acme.io", page.Records[0].Domain)
	assert.Equal(t, "Widgets", page.Records[0].Description)
	assert.Equal(t, "Unknown Company", page.Records[1].Name)

	assert.False(t, page.HasMore, "short page ends pagination")
	assert.Equal(t, 2, page.NextOffset)
}

func TestAttioFetchPeople(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/objects/people/records/query", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":{"record_id":"p-1"},"values":{
				"name":[{"full_name":"Jo Smith"}],
				"email_addresses":[{"email_address":"jo@acme.io"}],
				"job_title":[{"value":"CTO"}],
				"company":[{"value":"Acme Corp"}],
				"linkedin":[{"value":"https://linkedin.com/in/jo"}]}}
		]}`))
	}))
	defer srv.Close()

	page, err := NewAttio(srv.URL).FetchPeople(context.Background(), "key", 0)
	require.NoError(t, err)

	require.Len(t, page.Records, 1)
	p := page.Records[0]
	assert.Equal(t, "Jo Smith", p.Name)
	assert.Equal(t, "jo@acme.io", p.Email)
	assert.Equal(t, "CTO", p.Title)
	assert.Equal(t, "Acme Corp", p.CompanyName)
	assert.Equal(t, "https://linkedin.com/in/jo", p.LinkedinURL)
}

func TestAttioFetchLists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lists", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":{"list_id":"l-1"},"name":"Prospects","api_slug":"prospects","parent_object":["companies"]}
		]}`))
	}))
	defer srv.Close()

	lists, err := NewAttio(srv.URL).FetchLists(context.Background(), "key")
	require.NoError(t, err)

	require.Len(t, lists, 1)
	assert.Equal(t, "l-1", lists[0].ID)
	assert.Equal(t, "Prospects", lists[0].Name)
	assert.Equal(t, "prospects", lists[0].APISlug)
	assert.Equal(t, "companies", lists[0].ParentObject)
}

func TestAttioFetchListEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lists/prospects/entries/query", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":{"entry_id":"e-1"},"parent_record_id":"c-1","parent_object":"companies"},
			{"id":{"entry_id":"e-2"},"parent_record_id":"p-1","parent_object":"people"}
		]}`))
	}))
	defer srv.Close()

	page, err := NewAttio(srv.URL).FetchListEntries(context.Background(), "key", "prospects", 0)
	require.NoError(t, err)

	require.Len(t, page.Entries, 2)
	assert.Equal(t, config.RecordTypeCompany, page.Entries[0].RecordType)
	assert.Equal(t, config.RecordTypePerson, page.Entries[1].RecordType)
	assert.Equal(t, "c-1", page.Entries[0].RecordID)
}

func TestAttioFetchRecordByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/objects/people/records/p-1":
			w.Write([]byte(`{"data":{"id":{"record_id":"p-1"},"values":{
				"name":[{"full_name":"Jo Smith"}],
				"email_addresses":[{"email_address":"jo@acme.io"}]}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewAttio(srv.URL)

	rec, err := a.FetchRecordByID(context.Background(), "key", config.RecordTypePerson, "p-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Jo Smith", rec.Name)
	assert.Equal(t, "jo@acme.io", rec.Email)

	gone, err := a.FetchRecordByID(context.Background(), "key", config.RecordTypePerson, "p-404")
	require.NoError(t, err)
	assert.Nil(t, gone, "deleted upstream records are not errors")
}

func TestExtractLinkedinIgnoresNonLinkedinLinks(t *testing.T) {
	values := map[string][]json.RawMessage{
		"social_links": {json.RawMessage(`{"url":"https://twitter.com/jo"}`)},
	}
	assert.Empty(t, extractLinkedin(values))

	values["linkedin_url"] = []json.RawMessage{json.RawMessage(`{"original_url":"https://linkedin.com/in/jo"}`)}
	assert.Equal(t, "https://linkedin.com/in/jo", extractLinkedin(values))
}
