package agent

import (
	"context"
	"log"
	"sync"
)

// Supervisor tracks fire-and-forget background work so the process can
// observe in-flight jobs and drain them on shutdown. Workflow goroutines
// must never surface a failure to their spawner; panics are recovered and
// logged here as a last resort.
type Supervisor struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	inflight int
	logf     func(format string, args ...any)
}

// NewSupervisor creates a Supervisor
func NewSupervisor() *Supervisor {
	return &Supervisor{logf: log.Printf}
}

// Go spawns fn in the background under the supervisor's tracking
func (s *Supervisor) Go(name string, fn func()) {
	s.wg.Add(1)
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logf("supervisor: task %s panicked: %v", name, r)
			}
			s.mu.Lock()
			s.inflight--
			s.mu.Unlock()
			s.wg.Done()
		}()
		fn()
	}()
}

// InFlight returns the number of tasks currently running
func (s *Supervisor) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight
}

// Drain waits for all in-flight tasks to finish or the context to expire
func (s *Supervisor) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
