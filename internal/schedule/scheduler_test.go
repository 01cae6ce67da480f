package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunsAfterDelay(t *testing.T) {
	s := New()
	defer s.Stop()

	done := make(chan struct{})
	start := time.Now()
	s.RunAfter(20*time.Millisecond, func(ctx context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never ran")
	}
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSchedulerStopDropsPending(t *testing.T) {
	s := New()

	var ran int64
	s.RunAfter(time.Hour, func(ctx context.Context) {
		atomic.AddInt64(&ran, 1)
	})

	s.Stop()
	assert.Zero(t, atomic.LoadInt64(&ran), "stopped schedulers must drop pending callbacks")
}

func TestSchedulerCallbackSeesCancelledContextAfterStop(t *testing.T) {
	s := New()

	started := make(chan context.Context, 1)
	release := make(chan struct{})
	s.RunAfter(0, func(ctx context.Context) {
		started <- ctx
		<-release
	})

	var ctx context.Context
	select {
	case ctx = <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never started")
	}

	go func() {
		// Stop blocks on the running callback; unblock it shortly after.
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	s.Stop()

	assert.Error(t, ctx.Err(), "long-running callbacks observe shutdown via their context")
}
