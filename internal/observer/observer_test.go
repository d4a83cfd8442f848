package observer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

func TestObserver_DetectStuck(t *testing.T) {
	obs := New(5 * time.Minute)

	started := time.Now().Add(-10 * time.Minute)
	job := &domain.Job{
		AgentType: domain.AgentResearcher,
		Status:    domain.JobRunning,
		StartedAt: &started,
	}

	if !obs.IsStuck(job) {
		t.Error("Job running for 10 minutes should be detected as stuck")
	}
}

func TestObserver_NotStuck(t *testing.T) {
	obs := New(5 * time.Minute)

	started := time.Now().Add(-2 * time.Minute)
	job := &domain.Job{
		AgentType: domain.AgentResearcher,
		Status:    domain.JobRunning,
		StartedAt: &started,
	}

	if obs.IsStuck(job) {
		t.Error("Job running for 2 minutes should not be stuck")
	}

	job.Status = domain.JobSuccess
	started = time.Now().Add(-10 * time.Minute)
	if obs.IsStuck(job) {
		t.Error("Finished job should never be stuck")
	}
}

func TestObserver_Metrics(t *testing.T) {
	obs := New(5 * time.Minute)

	obs.RecordCompletion(domain.AgentResearcher, 5*time.Minute, true)
	obs.RecordCompletion(domain.AgentWriter, 10*time.Minute, true)
	obs.RecordCompletion(domain.AgentWriter, 6*time.Minute, false)

	metrics := obs.GetMetrics()

	if metrics.TotalCompleted != 2 {
		t.Errorf("TotalCompleted = %d, want 2", metrics.TotalCompleted)
	}
	if metrics.TotalFailed != 1 {
		t.Errorf("TotalFailed = %d, want 1", metrics.TotalFailed)
	}
	if metrics.AvgDuration != 7*time.Minute {
		t.Errorf("AvgDuration = %v, want 7m", metrics.AvgDuration)
	}
}

func TestObserver_RecentCompletions(t *testing.T) {
	obs := New(5 * time.Minute)

	obs.RecordCompletion(domain.AgentResearcher, time.Minute, true)
	obs.RecordCompletion(domain.AgentWriter, time.Minute, false)

	recent := obs.RecentCompletions(time.Hour)
	if len(recent) != 2 {
		t.Errorf("RecentCompletions = %d, want 2", len(recent))
	}

	if got := obs.RecentCompletions(-time.Second); len(got) != 0 {
		t.Errorf("RecentCompletions outside window = %d, want 0", len(got))
	}
}

func TestConfigWatcher_DebouncedCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[web]\nport = 8080\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var calls []string
	cw, err := NewConfigWatcher(func(p string) {
		mu.Lock()
		calls = append(calls, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cw.Stop()

	cw.SetDebounce(50 * time.Millisecond)
	if err := cw.AddFile(path); err != nil {
		t.Fatal(err)
	}
	cw.Start(context.Background())

	// A burst of writes should collapse into one callback
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("[web]\nport = 9000\n"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(calls)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("callbacks = %d, want 1 debounced call", len(calls))
	}
	abs, _ := filepath.Abs(path)
	if calls[0] != abs {
		t.Errorf("callback path = %q, want %q", calls[0], abs)
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "config.toml")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(watched, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	calls := 0
	cw, err := NewConfigWatcher(func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cw.Stop()

	cw.SetDebounce(30 * time.Millisecond)
	if err := cw.AddFile(watched); err != nil {
		t.Fatal(err)
	}
	cw.Start(context.Background())

	if err := os.WriteFile(other, []byte("scratch"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("callbacks = %d for an unwatched file, want 0", calls)
	}
}
