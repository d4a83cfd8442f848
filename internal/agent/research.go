package agent

import (
	"context"
	"fmt"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// StartResearch creates the job and runs a research pipeline in the
// background
func (r *Runner) StartResearch(query string, writerID int64) (int64, error) {
	jobID, err := r.ledger.StartJob(domain.AgentResearcher)
	if err != nil {
		return 0, err
	}

	r.run("research", "research", jobID, func(ctx context.Context) error {
		return r.runResearch(ctx, jobID, query, writerID)
	})
	return jobID, nil
}

func (r *Runner) runResearch(ctx context.Context, jobID int64, query string, writerID int64) error {
	r.ledger.Log(jobID, "Research started: "+query)
	r.ledger.UpdateProgress(jobID, 20, "Researching topic")

	writer := r.selectWriter(writerID)

	insights, err := r.llm.ResearchTopic(ctx, query)
	if err != nil {
		return fmt.Errorf("research call: %w", err)
	}

	r.ledger.UpdateProgress(jobID, 80, "Saving findings")

	task := &domain.ResearchTask{
		Query:   query,
		Results: insights,
	}
	if writer.ID != 0 {
		task.WriterID = &writer.ID
	}

	if _, err := r.store.InsertResearchTask(task); err != nil {
		return fmt.Errorf("saving research: %w", err)
	}

	r.ledger.UpdateProgress(jobID, 100, "Done")

	summary := fmt.Sprintf("%d insights collected", len(insights))
	r.ledger.Complete(jobID, domain.JobSuccess, summary)
	r.ledger.Notify(domain.Notification{
		Type:         domain.NotifySuccess,
		Category:     "research",
		Title:        "Research complete",
		Message:      summary,
		ActionText:   "View findings",
		ActionURL:    "/research",
		RelatedJobID: &jobID,
	})
	return nil
}
