// Package pool is a bounded-concurrency executor for enrichment work. It
// decouples request-time latency from research latency: callers enqueue and
// move on, failures surface only through completion callbacks or persisted
// job state, never through the queue API.
package pool

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/config"
	"github.com/bob-rietveld/unheard-v3/internal/observability"
	"github.com/google/uuid"
)

type State string

const (
	StatePending  State = "pending"
	StateRunning  State = "running"
	StateFinished State = "finished"
)

// Handle identifies one enqueued work item.
type Handle string

// Status reports where an item is in its lifecycle. Attempts counts prior
// attempts, so it is 0 while the first execution is in flight. Finished
// does not distinguish success from failure.
type Status struct {
	State    State
	Attempts int
}

// RetryPolicy controls re-execution after an item's Run returns an error.
// The sleep before attempt n (0-based prior attempts) is
// InitialBackoff * Base^n.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Base           float64
}

// Item is one unit of work. Run carries its own bound arguments; Retry
// overrides the pool default when set; OnComplete, when set, receives the
// final error (nil on success) after the last attempt.
type Item struct {
	Run        func(ctx context.Context) error
	Retry      *RetryPolicy
	OnComplete func(err error)
}

type Config struct {
	MaxParallelism int           `env:"POOL_MAX_PARALLELISM,default=3"`
	MaxAttempts    int           `env:"POOL_MAX_ATTEMPTS,default=2"`
	InitialBackoff time.Duration `env:"POOL_INITIAL_BACKOFF,default=10s"`
	BackoffBase    float64       `env:"POOL_BACKOFF_BASE,default=2"`
	// FinishedTTL is how long a finished item stays queryable via Status
	// before its handle is evicted.
	FinishedTTL time.Duration `env:"POOL_FINISHED_TTL,default=1m"`
}

func (c Config) withDefaults() Config {
	if c.MaxParallelism <= 0 {
		c.MaxParallelism = config.DefaultMaxParallelism
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = config.DefaultMaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = config.DefaultInitialBackoff
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = config.DefaultBackoffBase
	}
	if c.FinishedTTL <= 0 {
		c.FinishedTTL = config.DefaultFinishedTTL
	}
	return c
}

type entry struct {
	state    State
	attempts int
	cancel   context.CancelFunc
}

type Pool struct {
	cfg    Config
	sem    chan struct{}
	logger *slog.Logger

	mu      sync.Mutex
	entries map[Handle]*entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a dispatch pool. The pool is an explicit component with
// injected configuration; callers hold a reference rather than sharing a
// process-wide global.
func New(cfg Config, logger *slog.Logger) *Pool {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		cfg:     cfg,
		sem:     make(chan struct{}, cfg.MaxParallelism),
		logger:  logger,
		entries: make(map[Handle]*entry),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enqueue accepts one work item and returns immediately with its handle.
func (p *Pool) Enqueue(item Item) Handle {
	h := Handle(uuid.NewString())

	itemCtx, itemCancel := context.WithCancel(p.ctx)
	p.mu.Lock()
	p.entries[h] = &entry{state: StatePending, cancel: itemCancel}
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(itemCtx, h, item)
	return h
}

// EnqueueBatch accepts N items and returns one handle per item in input
// order.
func (p *Pool) EnqueueBatch(items []Item) []Handle {
	handles := make([]Handle, len(items))
	for i, item := range items {
		handles[i] = p.Enqueue(item)
	}
	return handles
}

// Status reports an item's current state and how many attempts have already
// run. The second return is false for unknown handles.
func (p *Pool) Status(h Handle) (Status, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[h]
	if !ok {
		return Status{}, false
	}
	return Status{State: e.state, Attempts: e.attempts}, true
}

func (p *Pool) StatusBatch(handles []Handle) []Status {
	out := make([]Status, len(handles))
	for i, h := range handles {
		out[i], _ = p.Status(h)
	}
	return out
}

// Cancel stops a pending or running item. Finished items are unaffected.
func (p *Pool) Cancel(h Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[h]
	if !ok || e.state == StateFinished {
		return false
	}
	e.cancel()
	return true
}

func (p *Pool) CancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.state != StateFinished {
			e.cancel()
		}
	}
}

// Stop cancels outstanding work and waits for in-flight items to unwind.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, h Handle, item Item) {
	defer p.wg.Done()

	finalErr := ctx.Err()
	if finalErr == nil {
		select {
		case p.sem <- struct{}{}:
			finalErr = p.attempt(ctx, h, item)
			<-p.sem
		case <-ctx.Done():
			finalErr = ctx.Err()
		}
	}

	p.setState(h, StateFinished)
	if item.OnComplete != nil {
		item.OnComplete(finalErr)
	}

	// Handles of finished items stay queryable for a grace period, then
	// drop out of the map so it does not grow with process lifetime.
	time.AfterFunc(p.cfg.FinishedTTL, func() {
		p.mu.Lock()
		delete(p.entries, h)
		p.mu.Unlock()
	})
}

func (p *Pool) attempt(ctx context.Context, h Handle, item Item) error {
	retry := RetryPolicy{
		MaxAttempts:    p.cfg.MaxAttempts,
		InitialBackoff: p.cfg.InitialBackoff,
		Base:           p.cfg.BackoffBase,
	}
	if item.Retry != nil {
		retry = *item.Retry
	}

	p.setState(h, StateRunning)
	observability.DispatchPoolRunning.Inc()
	defer observability.DispatchPoolRunning.Dec()

	var lastErr error
	for attempt := 0; attempt < retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			sleep := time.Duration(float64(retry.InitialBackoff) * math.Pow(retry.Base, float64(attempt-1)))
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = item.Run(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.bumpAttempts(h)
		p.logger.Warn("work item attempt failed",
			"handle", string(h), "attempt", attempt+1, "error", lastErr)
	}

	// Retries exhausted: the item is abandoned without propagating the
	// error to the enqueuer.
	p.logger.Error("work item abandoned after retries",
		"handle", string(h), "attempts", retry.MaxAttempts, "error", lastErr)
	return lastErr
}

func (p *Pool) setState(h Handle, s State) {
	p.mu.Lock()
	if e, ok := p.entries[h]; ok {
		e.state = s
	}
	p.mu.Unlock()
}

func (p *Pool) bumpAttempts(h Handle) {
	p.mu.Lock()
	if e, ok := p.entries[h]; ok {
		e.attempts++
	}
	p.mu.Unlock()
}
