package pool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFinished(t *testing.T, p *Pool, h Handle) Status {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		st, ok := p.Status(h)
		require.True(t, ok)
		if st.State == StateFinished {
			return st
		}
		select {
		case <-deadline:
			t.Fatalf("item %s never finished (state %s)", h, st.State)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestPoolRunsItem(t *testing.T) {
	p := New(Config{MaxParallelism: 2, MaxAttempts: 1}, testLogger())
	defer p.Stop()

	done := make(chan struct{})
	h := p.Enqueue(Item{Run: func(ctx context.Context) error {
		close(done)
		return nil
	}})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("item never ran")
	}
	// Attempts counts prior attempts; a first-try success never records one.
	st := waitFinished(t, p, h)
	assert.Equal(t, 0, st.Attempts)
}

func TestPoolConcurrencyBound(t *testing.T) {
	const parallelism = 3
	p := New(Config{MaxParallelism: parallelism, MaxAttempts: 1}, testLogger())
	defer p.Stop()

	var running, peak int64
	var mu sync.Mutex
	release := make(chan struct{})

	var handles []Handle
	for i := 0; i < 10; i++ {
		handles = append(handles, p.Enqueue(Item{Run: func(ctx context.Context) error {
			cur := atomic.AddInt64(&running, 1)
			mu.Lock()
			if cur > peak {
				peak = cur
			}
			mu.Unlock()
			<-release
			atomic.AddInt64(&running, -1)
			return nil
		}}))
	}

	// Give the pool time to admit as many items as it ever will.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	observed := peak
	mu.Unlock()
	assert.Equal(t, int64(parallelism), observed)

	close(release)
	for _, h := range handles {
		waitFinished(t, p, h)
	}
	mu.Lock()
	assert.LessOrEqual(t, peak, int64(parallelism))
	mu.Unlock()
}

func TestPoolRetriesWithBackoffAndAbandons(t *testing.T) {
	p := New(Config{MaxParallelism: 1}, testLogger())
	defer p.Stop()

	var calls int64
	var finalErr error
	done := make(chan struct{})
	boom := errors.New("boom")

	start := time.Now()
	h := p.Enqueue(Item{
		Run: func(ctx context.Context) error {
			atomic.AddInt64(&calls, 1)
			return boom
		},
		Retry: &RetryPolicy{MaxAttempts: 3, InitialBackoff: 10 * time.Millisecond, Base: 2},
		OnComplete: func(err error) {
			finalErr = err
			close(done)
		},
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("item never completed")
	}
	elapsed := time.Since(start)

	// Backoff before attempt 2 is 10ms, before attempt 3 is 20ms.
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
	assert.ErrorIs(t, finalErr, boom)

	st := waitFinished(t, p, h)
	assert.Equal(t, 3, st.Attempts)
}

func TestPoolStopsRetryingAfterSuccess(t *testing.T) {
	p := New(Config{MaxParallelism: 1}, testLogger())
	defer p.Stop()

	var calls int64
	h := p.Enqueue(Item{
		Run: func(ctx context.Context) error {
			if atomic.AddInt64(&calls, 1) < 2 {
				return errors.New("transient")
			}
			return nil
		},
		Retry: &RetryPolicy{MaxAttempts: 5, InitialBackoff: time.Millisecond, Base: 2},
	})

	st := waitFinished(t, p, h)
	assert.Equal(t, 1, st.Attempts)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestPoolEvictsFinishedHandles(t *testing.T) {
	p := New(Config{MaxParallelism: 1, MaxAttempts: 1, FinishedTTL: 10 * time.Millisecond}, testLogger())
	defer p.Stop()

	h := p.Enqueue(Item{Run: func(ctx context.Context) error { return nil }})
	waitFinished(t, p, h)

	assert.Eventually(t, func() bool {
		_, ok := p.Status(h)
		return !ok
	}, 2*time.Second, 5*time.Millisecond, "finished handle should be evicted after the grace period")
}

func TestPoolEnqueueBatchPreservesOrder(t *testing.T) {
	p := New(Config{MaxParallelism: 1, MaxAttempts: 1}, testLogger())
	defer p.Stop()

	var mu sync.Mutex
	var order []int
	items := make([]Item, 5)
	for i := range items {
		i := i
		items[i] = Item{Run: func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}}
	}

	handles := p.EnqueueBatch(items)
	require.Len(t, handles, len(items))
	seen := map[Handle]bool{}
	for _, h := range handles {
		assert.False(t, seen[h], "handles must be distinct")
		seen[h] = true
		waitFinished(t, p, h)
	}

	statuses := p.StatusBatch(handles)
	for _, st := range statuses {
		assert.Equal(t, StateFinished, st.State)
	}
}

func TestPoolCancelPending(t *testing.T) {
	p := New(Config{MaxParallelism: 1, MaxAttempts: 1}, testLogger())
	defer p.Stop()

	block := make(chan struct{})
	running := p.Enqueue(Item{Run: func(ctx context.Context) error {
		<-block
		return nil
	}})

	var ran int64
	var finalErr error
	done := make(chan struct{})
	pending := p.Enqueue(Item{
		Run: func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		},
		OnComplete: func(err error) {
			finalErr = err
			close(done)
		},
	})

	require.True(t, p.Cancel(pending))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled item never completed")
	}
	assert.Zero(t, atomic.LoadInt64(&ran), "cancelled pending item must not run")
	assert.ErrorIs(t, finalErr, context.Canceled)

	close(block)
	waitFinished(t, p, running)
}

func TestPoolStatusUnknownHandle(t *testing.T) {
	p := New(Config{}, testLogger())
	defer p.Stop()

	_, ok := p.Status(Handle("nope"))
	assert.False(t, ok)
}
