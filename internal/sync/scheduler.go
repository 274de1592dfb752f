package sync

import (
	"context"
	"sync"
	"time"
)

// DefaultQuietPeriod is how long a collection must stay untouched before
// its pending pass fires. Long enough to coalesce a typing burst, short
// enough that an edit reaches the remote store within a second.
const DefaultQuietPeriod = 600 * time.Millisecond

// Scheduler debounces write passes per collection. Every local mutation
// calls Touch; the pass runs only after the collection has been quiet for
// the full period, and a touch during a running pass queues exactly one
// re-run instead of overlapping it.
type Scheduler struct {
	quiet time.Duration
	run   func(ctx context.Context, col Collection)

	mu      sync.Mutex
	cond    *sync.Cond
	timers  map[Collection]*time.Timer
	active  map[Collection]bool
	rerun   map[Collection]bool
	stopped bool
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler that invokes run after the quiet
// period elapses for a touched collection.
func NewScheduler(quiet time.Duration, run func(ctx context.Context, col Collection)) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	s := &Scheduler{
		quiet:  quiet,
		run:    run,
		timers: make(map[Collection]*time.Timer),
		active: make(map[Collection]bool),
		rerun:  make(map[Collection]bool),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Touch restarts the collection's quiet-period timer. If a pass for the
// collection is already in flight the touch is remembered and one more
// pass runs after the current one finishes.
func (s *Scheduler) Touch(col Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.active[col] {
		s.rerun[col] = true
		return
	}
	if t, ok := s.timers[col]; ok {
		t.Stop()
	}
	s.timers[col] = time.AfterFunc(s.quiet, func() { s.fire(col) })
}

// Flush cancels any pending timer for the collection and runs the pass
// immediately on the calling goroutine. Used by the manual save path,
// which must not wait out the quiet period. When a pass for the
// collection is already in flight, Flush queues one re-run and blocks
// until it has completed, so the caller never observes a pass that has
// not happened yet.
func (s *Scheduler) Flush(ctx context.Context, col Collection) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if t, ok := s.timers[col]; ok {
		t.Stop()
		delete(s.timers, col)
	}
	if s.active[col] {
		s.rerun[col] = true
		for s.active[col] && !s.stopped {
			s.cond.Wait()
		}
		s.mu.Unlock()
		return
	}
	s.active[col] = true
	s.mu.Unlock()

	s.execute(ctx, col)
}

// Stop cancels all pending timers and waits for in-flight passes to
// finish. Pending work is dropped, not flushed; shutdown must not block
// on the remote store.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for col, t := range s.timers {
		t.Stop()
		delete(s.timers, col)
	}
	for col := range s.rerun {
		delete(s.rerun, col)
	}
	s.cond.Broadcast()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) fire(col Collection) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.timers, col)
	if s.active[col] {
		s.rerun[col] = true
		s.mu.Unlock()
		return
	}
	s.active[col] = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.execute(context.Background(), col)
	}()
}

func (s *Scheduler) execute(ctx context.Context, col Collection) {
	for {
		s.run(ctx, col)

		s.mu.Lock()
		if s.rerun[col] && !s.stopped {
			delete(s.rerun, col)
			s.mu.Unlock()
			continue
		}
		delete(s.rerun, col)
		delete(s.active, col)
		s.cond.Broadcast()
		s.mu.Unlock()
		return
	}
}
