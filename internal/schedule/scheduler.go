package schedule

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is a named recurring agent run
type Task struct {
	Name string
	Cron string
	Run  func() error
}

// Validate checks if the task is well formed
func (t *Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.Cron == "" {
		return fmt.Errorf("cron expression is required")
	}
	if _, err := ParseCron(t.Cron); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	if t.Run == nil {
		return fmt.Errorf("task %s has no run function", t.Name)
	}
	return nil
}

// Scheduler manages recurring agent runs
type Scheduler struct {
	tasks    map[string]Task
	parser   cron.Parser
	lastRun  map[string]time.Time
	running  map[string]bool
	mu       sync.RWMutex
	stopChan chan struct{}
}

// NewScheduler creates a scheduler for the given tasks
func NewScheduler(tasks ...Task) (*Scheduler, error) {
	s := &Scheduler{
		tasks:    make(map[string]Task),
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		lastRun:  make(map[string]time.Time),
		running:  make(map[string]bool),
		stopChan: make(chan struct{}),
	}

	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		s.tasks[t.Name] = t
	}

	return s, nil
}

// ParseCron parses a cron expression
func ParseCron(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(expr)
}

// Reload replaces the task set, keeping per-task run history.
// Settings changes picked up by the observer land here.
func (s *Scheduler) Reload(tasks []Task) error {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]Task, len(tasks))
	for _, t := range tasks {
		s.tasks[t.Name] = t
	}
	return nil
}

// NextRun returns the next scheduled run time for a task
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[name]
	if !ok {
		return time.Time{}
	}

	sched, err := s.parser.Parse(t.Cron)
	if err != nil {
		return time.Time{}
	}

	return sched.Next(time.Now())
}

// ShouldRun returns true if a task should run now
func (s *Scheduler) ShouldRun(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[name]
	if !ok {
		return false
	}

	if s.running[name] {
		return false
	}

	sched, err := s.parser.Parse(t.Cron)
	if err != nil {
		return false
	}

	lastRun := s.lastRun[name]
	if lastRun.IsZero() {
		lastRun = time.Now().Add(-24 * time.Hour)
	}

	nextRun := sched.Next(lastRun)
	return time.Now().After(nextRun)
}

// MarkRunning marks a task as currently running
func (s *Scheduler) MarkRunning(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running[name] = true
}

// MarkComplete marks a task as complete
func (s *Scheduler) MarkComplete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running[name] = false
	s.lastRun[name] = time.Now()
}

// Tasks returns all task names
func (s *Scheduler) Tasks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	return names
}

// Start begins the scheduler loop. Blocks until Stop is called.
func (s *Scheduler) Start() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.RLock()
			names := make([]string, 0, len(s.tasks))
			for name := range s.tasks {
				names = append(names, name)
			}
			s.mu.RUnlock()

			for _, name := range names {
				if s.ShouldRun(name) {
					s.mu.RLock()
					t := s.tasks[name]
					s.mu.RUnlock()

					s.MarkRunning(name)
					go func(t Task) {
						if err := t.Run(); err != nil {
							log.Printf("Scheduled task %s failed: %v", t.Name, err)
						}
						s.MarkComplete(t.Name)
					}(t)
				}
			}
		}
	}
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
}
