package agent

import (
	"context"
	"fmt"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// StartNewsFetch creates the job and kicks off the fetch pipeline in the
// background. An empty industry falls back to the configured brand industry.
func (r *Runner) StartNewsFetch(industry string) (int64, error) {
	jobID, err := r.ledger.StartJob(domain.AgentResearcher)
	if err != nil {
		return 0, err
	}

	r.run("news-fetch", "news", jobID, func(ctx context.Context) error {
		return r.runNewsFetch(ctx, jobID, industry)
	})
	return jobID, nil
}

func (r *Runner) runNewsFetch(ctx context.Context, jobID int64, industry string) error {
	r.ledger.Log(jobID, "News fetch started")
	r.ledger.UpdateProgress(jobID, 10, "Loading settings")

	if industry == "" {
		cs, err := r.store.GetCompanySettings()
		if err != nil {
			return fmt.Errorf("loading company settings: %w", err)
		}
		industry = cs.Industry
	}
	if industry == "" {
		industry = "technology"
	}

	r.ledger.Log(jobID, "Searching news for: "+industry)
	r.ledger.UpdateProgress(jobID, 30, "Searching for news")

	articles, err := r.llm.SearchNews(ctx, industry)
	if err != nil {
		return fmt.Errorf("news search: %w", err)
	}

	if len(articles) == 0 {
		// Soft failure: terminate the job and warn, but do not take the
		// error path.
		r.ledger.Log(jobID, "Search returned no articles")
		r.ledger.Complete(jobID, domain.JobFailed, "No articles found for "+industry)
		r.ledger.Notify(domain.Notification{
			Type:         domain.NotifyWarning,
			Category:     "news",
			Title:        "No news found",
			Message:      "The search for " + industry + " returned no articles",
			RelatedJobID: &jobID,
		})
		return nil
	}

	r.ledger.UpdateProgress(jobID, 60, fmt.Sprintf("Processing %d articles", len(articles)))

	inserted := 0
	for _, a := range articles {
		existing, err := r.store.GetArticleByURL(a.URL)
		if err != nil {
			return fmt.Errorf("checking for duplicate: %w", err)
		}
		if existing != nil {
			r.ledger.Log(jobID, "Skipped duplicate: "+a.URL)
			continue
		}

		if _, err := r.store.InsertArticle(&a); err != nil {
			return fmt.Errorf("inserting article: %w", err)
		}
		inserted++
		r.ledger.Log(jobID, "Added article: "+a.Title)
	}

	r.ledger.UpdateProgress(jobID, 100, "Done")

	summary := fmt.Sprintf("%d new articles added", inserted)
	r.ledger.Complete(jobID, domain.JobSuccess, summary)
	r.ledger.Notify(domain.Notification{
		Type:         domain.NotifySuccess,
		Category:     "news",
		Title:        "News fetch complete",
		Message:      summary,
		ActionText:   "View articles",
		ActionURL:    "/news",
		RelatedJobID: &jobID,
	})
	return nil
}
