package agent

import (
	"context"
	"fmt"

	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/brandpulse/content-orchestrator/internal/prompts"
)

// StartAnnouncement creates the job and writes a feature announcement in
// the background
func (r *Runner) StartAnnouncement(title, facts string, writerID int64) (int64, error) {
	jobID, err := r.ledger.StartJob(domain.AgentPublisher)
	if err != nil {
		return 0, err
	}

	r.run("announcement", "announcement", jobID, func(ctx context.Context) error {
		return r.runAnnouncement(ctx, jobID, title, facts, writerID)
	})
	return jobID, nil
}

func (r *Runner) runAnnouncement(ctx context.Context, jobID int64, title, facts string, writerID int64) error {
	r.ledger.Log(jobID, "Announcement started: "+title)
	r.ledger.UpdateProgress(jobID, 20, "Drafting announcement")

	writer := r.selectWriter(writerID)
	cs, err := r.store.GetCompanySettings()
	if err != nil {
		return fmt.Errorf("loading company settings: %w", err)
	}

	prompt, err := r.prompts.BuildAnnouncementPrompt(prompts.AnnouncementData{
		Title: title,
		Facts: facts,
	})
	if err != nil {
		return fmt.Errorf("building announcement prompt: %w", err)
	}

	content, err := r.llm.GenerateBlog(ctx, prompt, r.systemInstruction(writer, cs))
	if err != nil {
		return fmt.Errorf("generating announcement: %w", err)
	}

	r.ledger.UpdateProgress(jobID, 80, "Saving announcement")

	announcement := &domain.FeatureAnnouncement{
		Title:   title,
		Facts:   facts,
		Content: content,
	}
	if writer.ID != 0 {
		announcement.WriterID = &writer.ID
	}

	id, err := r.store.InsertAnnouncement(announcement)
	if err != nil {
		return fmt.Errorf("saving announcement: %w", err)
	}

	r.ledger.UpdateProgress(jobID, 100, "Done")
	r.ledger.Complete(jobID, domain.JobSuccess, "Announcement created: "+title)
	r.ledger.Notify(domain.Notification{
		Type:         domain.NotifySuccess,
		Category:     "announcement",
		Title:        "Announcement ready",
		Message:      title,
		ActionText:   "Open announcement",
		ActionURL:    fmt.Sprintf("/announcements/%d", id),
		RelatedJobID: &jobID,
	})
	return nil
}
