package agent

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSupervisorDrainWaitsForWork(t *testing.T) {
	super := NewSupervisor()

	var done atomic.Bool
	release := make(chan struct{})
	super.Go("slow", func() {
		<-release
		done.Store(true)
	})

	if super.InFlight() != 1 {
		t.Errorf("InFlight = %d, want 1", super.InFlight())
	}

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := super.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if !done.Load() {
		t.Error("Drain returned before the goroutine finished")
	}
	if super.InFlight() != 0 {
		t.Errorf("InFlight = %d after drain, want 0", super.InFlight())
	}
}

func TestSupervisorDrainHonorsContext(t *testing.T) {
	super := NewSupervisor()

	release := make(chan struct{})
	defer close(release)
	super.Go("stuck", func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := super.Drain(ctx); err == nil {
		t.Error("Drain = nil with work still in flight, want context error")
	}
}

func TestSupervisorRecoversPanic(t *testing.T) {
	super := NewSupervisor()

	super.Go("boom", func() { panic("agent blew up") })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := super.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	// Reaching here at all means the panic did not cross the goroutine
	if super.InFlight() != 0 {
		t.Errorf("InFlight = %d, want 0", super.InFlight())
	}
}
