// Package agent implements the task runners: one sequential checkpointed
// pipeline per workflow, each driving a job from running to a terminal
// state and emitting notifications at the end.
package agent

import (
	"context"
	"fmt"

	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/brandpulse/content-orchestrator/internal/ledger"
	"github.com/brandpulse/content-orchestrator/internal/llm"
	"github.com/brandpulse/content-orchestrator/internal/prompts"
	"github.com/brandpulse/content-orchestrator/internal/store"
)

// failMessageLimit caps the job message on failure; the full error still
// goes to the job logs and the notification.
const failMessageLimit = 50

// Runner drives the agent workflows. Start* methods create the job
// synchronously and return its id before any work happens; the pipeline
// itself runs on the supervisor.
type Runner struct {
	store   *store.Store
	ledger  *ledger.Ledger
	llm     llm.Client
	super   *Supervisor
	prompts *prompts.Loader
}

// NewRunner creates a Runner
func NewRunner(st *store.Store, led *ledger.Ledger, client llm.Client, super *Supervisor) *Runner {
	return &Runner{
		store:   st,
		ledger:  led,
		llm:     client,
		super:   super,
		prompts: prompts.GetDefaultLoader(),
	}
}

// selectWriter resolves the persona for a generation step. Fallback chain:
// explicit id -> default writer -> first writer -> placeholder. The
// placeholder is never persisted; the generation step always gets some
// persona.
func (r *Runner) selectWriter(writerID int64) *domain.Writer {
	if writerID != 0 {
		if w, err := r.store.GetWriter(writerID); err == nil && w != nil {
			return w
		}
	}
	if w, err := r.store.GetDefaultWriter(); err == nil && w != nil {
		return w
	}
	if w, err := r.store.FirstWriter(); err == nil && w != nil {
		return w
	}
	return domain.PlaceholderWriter()
}

// systemInstruction renders the persona prompt for a writer. A broken
// template override degrades to a bare persona line rather than failing
// the pipeline.
func (r *Runner) systemInstruction(w *domain.Writer, cs *domain.CompanySettings) string {
	data := prompts.SystemData{
		WriterName:  w.Name,
		Bio:         w.Bio,
		Personality: w.Personality,
		Tone:        w.Style.Tone,
		Voice:       w.Style.Voice,
	}
	if cs != nil {
		data.CompanyName = cs.Name
		data.Industry = cs.Industry
		data.Audience = cs.Audience
	}

	out, err := r.prompts.BuildSystemPrompt(data)
	if err != nil {
		return fmt.Sprintf("You are %s, a content writer.", w.Name)
	}
	return out
}

// failJob is the single failure path for workflow pipelines: log the error
// into the job, terminate it as failed with a truncated message, and emit
// an error notification carrying the full message.
func (r *Runner) failJob(jobID int64, category string, err error) {
	msg := err.Error()
	r.ledger.Log(jobID, "Error: "+msg)
	r.ledger.Complete(jobID, domain.JobFailed, truncate(msg, failMessageLimit))
	r.ledger.Notify(domain.Notification{
		Type:         domain.NotifyError,
		Category:     category,
		Title:        "Agent task failed",
		Message:      msg,
		RelatedJobID: &jobID,
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// run executes a pipeline under the supervisor with a top-level catch so
// the detached goroutine never surfaces a failure.
func (r *Runner) run(name, category string, jobID int64, pipeline func(ctx context.Context) error) {
	r.super.Go(name, func() {
		ctx := context.Background()
		defer func() {
			if rec := recover(); rec != nil {
				r.failJob(jobID, category, fmt.Errorf("panic: %v", rec))
			}
		}()
		if err := pipeline(ctx); err != nil {
			r.failJob(jobID, category, err)
		}
	})
}
