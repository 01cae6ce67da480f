// Package schedule runs one-shot delayed callbacks. The enrichment poll
// chain is built from these: each poll step schedules the next instead of
// blocking a goroutine on the agent, so "waiting" is just a pending timer
// plus persisted job state.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Runner is the scheduling contract the orchestrator depends on. Tests
// substitute a synchronous fake.
type Runner interface {
	RunAfter(d time.Duration, fn func(ctx context.Context))
}

type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Runner = (*Scheduler)(nil)

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// RunAfter invokes fn on its own goroutine after the delay. A stopped
// scheduler drops the callback instead of running it.
func (s *Scheduler) RunAfter(d time.Duration, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			fn(s.ctx)
		case <-s.ctx.Done():
		}
	}()
}

// Stop cancels pending timers and waits for running callbacks to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
