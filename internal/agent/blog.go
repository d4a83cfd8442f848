package agent

import (
	"context"
	"fmt"

	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/brandpulse/content-orchestrator/internal/prompts"
)

// minSourceArticles is the number of unused articles a blog generation
// needs before the model is called at all.
const minSourceArticles = 1

// maxSourceArticles caps how many articles feed a single draft
const maxSourceArticles = 5

// StartBlogGeneration creates the job and generates a blog draft from
// recent unused articles in the background
func (r *Runner) StartBlogGeneration(writerID int64, prompt string) (int64, error) {
	jobID, err := r.ledger.StartJob(domain.AgentWriter)
	if err != nil {
		return 0, err
	}

	r.run("blog-generate", "blog", jobID, func(ctx context.Context) error {
		return r.runBlogGeneration(ctx, jobID, writerID, prompt)
	})
	return jobID, nil
}

func (r *Runner) runBlogGeneration(ctx context.Context, jobID int64, writerID int64, prompt string) error {
	r.ledger.Log(jobID, "Blog generation started")
	r.ledger.UpdateProgress(jobID, 10, "Collecting source articles")

	articles, err := r.store.ListArticles(domain.ArticleNew, maxSourceArticles)
	if err != nil {
		return fmt.Errorf("listing articles: %w", err)
	}

	if len(articles) < minSourceArticles {
		// Fail before the model is ever called
		r.ledger.Log(jobID, "Not enough new articles to generate from")
		r.ledger.Complete(jobID, domain.JobFailed, "Not enough new articles")
		r.ledger.Notify(domain.Notification{
			Type:         domain.NotifyWarning,
			Category:     "blog",
			Title:        "Not enough articles",
			Message:      "Fetch news before generating a blog post",
			RelatedJobID: &jobID,
		})
		return nil
	}

	writer := r.selectWriter(writerID)
	r.ledger.Log(jobID, "Using writer: "+writer.Name)
	r.ledger.UpdateProgress(jobID, 30, "Generating draft")

	cs, err := r.store.GetCompanySettings()
	if err != nil {
		return fmt.Errorf("loading company settings: %w", err)
	}

	if prompt == "" {
		var sources []prompts.SourceItem
		for _, a := range articles {
			sources = append(sources, prompts.SourceItem{Title: a.Title, Summary: a.Summary})
		}
		prompt, err = r.prompts.BuildBlogPrompt(prompts.BlogData{Sources: sources})
		if err != nil {
			return fmt.Errorf("building blog prompt: %w", err)
		}
	}

	content, err := r.llm.GenerateBlog(ctx, prompt, r.systemInstruction(writer, cs))
	if err != nil {
		return fmt.Errorf("generating blog: %w", err)
	}

	r.ledger.UpdateProgress(jobID, 70, "Extracting metadata")
	meta, err := r.llm.ExtractMetadata(ctx, content)
	if err != nil {
		return fmt.Errorf("extracting metadata: %w", err)
	}
	if meta.Title == "" {
		meta.Title = "Untitled draft"
	}

	r.ledger.UpdateProgress(jobID, 90, "Saving draft")

	blog := &domain.Blog{
		Title:   meta.Title,
		Excerpt: meta.Excerpt,
		Content: content,
		Tags:    meta.Tags,
		Status:  domain.BlogDraft,
	}
	if writer.ID != 0 {
		blog.WriterID = &writer.ID
	}

	blogID, err := r.store.InsertBlog(blog)
	if err != nil {
		return fmt.Errorf("saving blog: %w", err)
	}

	var used []int64
	for _, a := range articles {
		used = append(used, a.ID)
	}
	if err := r.store.MarkArticlesUsed(used); err != nil {
		r.ledger.Log(jobID, "Warning: could not mark source articles used")
	}

	r.ledger.UpdateProgress(jobID, 100, "Done")
	r.ledger.Complete(jobID, domain.JobSuccess, "Draft created: "+meta.Title)
	r.ledger.Notify(domain.Notification{
		Type:         domain.NotifySuccess,
		Category:     "blog",
		Title:        "Blog draft ready",
		Message:      meta.Title,
		ActionText:   "Open draft",
		ActionURL:    fmt.Sprintf("/blogs/%d", blogID),
		RelatedJobID: &jobID,
	})
	return nil
}
