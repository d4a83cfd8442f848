// Package ledger is the single authority for job-row lifecycle. All state
// transitions go through it so call sites never hand-write SQL for job
// bookkeeping.
package ledger

import (
	"fmt"
	"log"
	"time"

	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/brandpulse/content-orchestrator/internal/notify"
)

// Store is the persistence surface the ledger needs
type Store interface {
	CreateJob(agentType domain.AgentType) (int64, error)
	GetJob(id int64) (*domain.Job, error)
	UpdateJobProgress(id int64, progress int, message string) error
	UpdateJobLogs(id int64, logs string) error
	CompleteJob(id int64, status domain.JobStatus, message string) error
	CreateNotification(n *domain.Notification) (int64, error)
}

// Ledger owns job bookkeeping. StartJob is the only operation that fails
// loudly; every other mutator is best-effort, because it is called from deep
// inside a long LLM-calling workflow and a transient DB hiccup must not
// cancel an in-flight (and possibly billed) request.
type Ledger struct {
	store    Store
	notifier notify.Notifier
	logf     func(format string, args ...any)
}

// New creates a Ledger over the given store
func New(store Store) *Ledger {
	return &Ledger{
		store:    store,
		notifier: notify.NoopNotifier{},
		logf:     log.Printf,
	}
}

// SetNotifier sets an outbound mirror for notifications (Slack, desktop)
func (l *Ledger) SetNotifier(n notify.Notifier) {
	if n != nil {
		l.notifier = n
	}
}

// StartJob inserts a new job row and returns its identity synchronously,
// before any work begins. A caller that cannot obtain a job id has no way to
// report progress at all, so this is the one mutator that propagates errors.
func (l *Ledger) StartJob(agentType domain.AgentType) (int64, error) {
	id, err := l.store.CreateJob(agentType)
	if err != nil {
		return 0, fmt.Errorf("starting %s job: %w", agentType, err)
	}
	return id, nil
}

// UpdateProgress updates the progress and message fields only. A missed
// progress tick must never abort the workflow it is reporting on.
func (l *Ledger) UpdateProgress(jobID int64, progress int, message string) {
	l.attempt("update progress", jobID, func() error {
		return l.store.UpdateJobProgress(jobID, progress, message)
	})
}

// Log appends a timestamped line to the job's log blob. Read-then-write
// without a lock; safe because exactly one runner appends to a given job.
func (l *Ledger) Log(jobID int64, message string) {
	l.attempt("append log", jobID, func() error {
		job, err := l.store.GetJob(jobID)
		if err != nil {
			return err
		}
		if job == nil {
			return fmt.Errorf("job %d not found", jobID)
		}
		line := fmt.Sprintf("[%s] %s\n", time.Now().Format("15:04:05"), message)
		return l.store.UpdateJobLogs(jobID, job.Logs+line)
	})
}

// Complete moves the job to a terminal state with a final message
func (l *Ledger) Complete(jobID int64, status domain.JobStatus, finalMessage string) {
	if finalMessage == "" {
		if status == domain.JobSuccess {
			finalMessage = "Completed"
		} else {
			finalMessage = "Failed"
		}
	}
	l.attempt("complete job", jobID, func() error {
		return l.store.CompleteJob(jobID, status, finalMessage)
	})
}

// Notify inserts a notification row, and mirrors it to the outbound
// notifier when one is configured. Best-effort on both legs.
func (l *Ledger) Notify(n domain.Notification) {
	var jobID int64
	if n.RelatedJobID != nil {
		jobID = *n.RelatedJobID
	}

	l.attempt("create notification", jobID, func() error {
		_, err := l.store.CreateNotification(&n)
		return err
	})

	if err := l.notifier.Send(notify.Notification{
		Title:     n.Title,
		Message:   n.Message,
		Type:      notify.TypeFor(n.Type),
		Category:  n.Category,
		JobID:     jobID,
		ActionURL: n.ActionURL,
	}); err != nil {
		l.logf("ledger: outbound notification failed: %v", err)
	}
}

// attempt enforces the non-throwing contract for all ledger mutators:
// run the operation, and on failure log and continue.
func (l *Ledger) attempt(op string, jobID int64, fn func() error) {
	if err := fn(); err != nil {
		l.logf("ledger: %s for job %d failed: %v", op, jobID, err)
	}
}
