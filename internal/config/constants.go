package config

import "time"

type JobStatus string

type EnrichmentStatus string

type RecordType string

type IntegrationStatus string

var (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"

	EnrichmentNone     EnrichmentStatus = "none"
	EnrichmentPending  EnrichmentStatus = "pending"
	EnrichmentEnriched EnrichmentStatus = "enriched"
	EnrichmentFailed   EnrichmentStatus = "failed"

	RecordTypeCompany RecordType = "company"
	RecordTypePerson  RecordType = "person"
	RecordTypeMixed   RecordType = "mixed"

	IntegrationConnected    IntegrationStatus = "connected"
	IntegrationDisconnected IntegrationStatus = "disconnected"
	IntegrationError        IntegrationStatus = "error"

	AllowedProviders = []string{"attio"}
)

// Enrichment pipeline defaults. PollInterval * MaxPolls bounds how long an
// asynchronous agent job may run before it is marked failed.
const (
	DefaultMaxParallelism = 3
	DefaultMaxAttempts    = 2
	DefaultInitialBackoff = 10 * time.Second
	DefaultBackoffBase    = 2.0

	DefaultPollInterval = time.Minute
	DefaultMaxPolls     = 10

	DefaultFinishedTTL = time.Minute
)

// IsTerminal reports whether a job status can no longer change.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// NeedsEnrichment reports whether a record is eligible for (re-)enrichment.
// Pending and already-enriched records are skipped by segment batches.
func (s EnrichmentStatus) NeedsEnrichment() bool {
	return s == EnrichmentNone || s == EnrichmentFailed
}
