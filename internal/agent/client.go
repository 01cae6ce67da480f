// Package agent is the HTTP client for the external research agent: a
// black-box service that performs web research and returns structured data,
// either synchronously or via an asynchronous job id.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/time/rate"
)

const (
	// StateProcessing, StateCompleted and StateFailed are the only states
	// the agent's status endpoint reports.
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
)

type Config struct {
	BaseURL        string        `env:"RESEARCH_AGENT_BASE_URL,default=https://api.firecrawl.dev/v2"`
	APIKey         string        `env:"RESEARCH_AGENT_API_KEY"`
	Model          string        `env:"RESEARCH_AGENT_MODEL,default=spark-1-mini"`
	RequestTimeout time.Duration `env:"RESEARCH_AGENT_TIMEOUT,default=30s"`
	// RateLimitRPS caps outbound calls to the agent. <=0 disables the limiter.
	RateLimitRPS float64 `env:"RESEARCH_AGENT_RATE_RPS,default=2"`
}

func LoadConfigFromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process agent config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}

type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter: limiter,
	}
}

// Enabled reports whether an API key is configured. Callers reject
// enrichment requests synchronously when it is not.
func (c *Client) Enabled() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

type StartRequest struct {
	Prompt string   `json:"prompt"`
	Schema any      `json:"schema"`
	URLs   []string `json:"urls,omitempty"`
	Model  string   `json:"model"`
}

// StartResult holds either an immediate synchronous result or the id of an
// asynchronous agent job, never both.
type StartResult struct {
	JobID     string
	Immediate json.RawMessage
}

type startResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	ID      string          `json:"id"`
}

// Start submits a research request. A 2xx response with data completes
// immediately; one with only an id hands back an asynchronous job. Any
// non-2xx response is an error carrying the status code and body text.
func (c *Client) Start(ctx context.Context, prompt string, schema any, urls []string) (*StartResult, error) {
	req := StartRequest{
		Prompt: prompt,
		Schema: schema,
		Model:  c.cfg.Model,
	}
	if len(urls) > 0 {
		req.URLs = urls
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode agent request: %w", err)
	}

	timer := prometheus.NewTimer(observability.AgentRequestDuration.WithLabelValues("start"))
	status, respBody, err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+"/agent", body)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, fmt.Errorf("research agent error: %d - %s", status, strings.TrimSpace(string(respBody)))
	}

	var parsed startResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse agent response: %w", err)
	}

	// Some requests return data immediately.
	if parsed.Success && len(parsed.Data) > 0 {
		return &StartResult{Immediate: parsed.Data}, nil
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("research agent did not return a job ID")
	}
	return &StartResult{JobID: parsed.ID}, nil
}

// JobState is one observation of an asynchronous agent job.
type JobState struct {
	State string
	Data  json.RawMessage
}

type statusResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Status queries an asynchronous job. A non-2xx response is reported as
// still processing: transient agent-side trouble must not abort the poll
// chain, only an explicit terminal signal may.
func (c *Client) Status(ctx context.Context, jobID string) (*JobState, error) {
	timer := prometheus.NewTimer(observability.AgentRequestDuration.WithLabelValues("status"))
	status, respBody, err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+"/agent/"+jobID, nil)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return &JobState{State: StateProcessing}, nil
	}

	var parsed statusResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return &JobState{State: StateProcessing}, nil
	}

	switch {
	case parsed.Status == StateCompleted && len(parsed.Data) > 0:
		return &JobState{State: StateCompleted, Data: parsed.Data}, nil
	case parsed.Status == StateFailed:
		return &JobState{State: StateFailed}, nil
	default:
		return &JobState{State: StateProcessing}, nil
	}
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build agent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("research agent request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read agent response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
