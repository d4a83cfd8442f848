package observer

import (
	"sync"
	"time"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// Observer monitors running jobs and collects completion metrics
type Observer struct {
	stuckThreshold time.Duration

	completions []completion
	mu          sync.RWMutex
}

type completion struct {
	AgentType   domain.AgentType
	Duration    time.Duration
	Succeeded   bool
	CompletedAt time.Time
}

// Metrics holds aggregated metrics
type Metrics struct {
	TotalCompleted int
	TotalFailed    int
	AvgDuration    time.Duration
}

// New creates a new Observer
func New(stuckThreshold time.Duration) *Observer {
	return &Observer{
		stuckThreshold: stuckThreshold,
	}
}

// IsStuck returns true if a job has been running past the threshold
func (o *Observer) IsStuck(job *domain.Job) bool {
	if job.Status != domain.JobRunning {
		return false
	}
	if job.StartedAt == nil {
		return false
	}
	return time.Since(*job.StartedAt) > o.stuckThreshold
}

// RecordCompletion records a finished job
func (o *Observer) RecordCompletion(agentType domain.AgentType, duration time.Duration, succeeded bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.completions = append(o.completions, completion{
		AgentType:   agentType,
		Duration:    duration,
		Succeeded:   succeeded,
		CompletedAt: time.Now(),
	})
}

// GetMetrics returns aggregated metrics
func (o *Observer) GetMetrics() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var metrics Metrics
	var totalDuration time.Duration

	for _, c := range o.completions {
		if c.Succeeded {
			metrics.TotalCompleted++
		} else {
			metrics.TotalFailed++
		}
		totalDuration += c.Duration
	}

	if n := len(o.completions); n > 0 {
		metrics.AvgDuration = totalDuration / time.Duration(n)
	}

	return metrics
}

// RecentCompletions returns agent types that finished within the window
func (o *Observer) RecentCompletions(since time.Duration) []domain.AgentType {
	o.mu.RLock()
	defer o.mu.RUnlock()

	cutoff := time.Now().Add(-since)
	var result []domain.AgentType

	for _, c := range o.completions {
		if c.CompletedAt.After(cutoff) {
			result = append(result, c.AgentType)
		}
	}

	return result
}
