package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/brandpulse/content-orchestrator/internal/ledger"
	"github.com/brandpulse/content-orchestrator/internal/llm"
	"github.com/brandpulse/content-orchestrator/internal/store"
)

// mockLLM is a scriptable llm.Client
type mockLLM struct {
	articles  []domain.NewsArticle
	searchErr error
	blogText  string
	blogErr   error
	meta      llm.Metadata
	insights  []domain.Insight

	searchCalls   int
	generateCalls int

	gate chan struct{} // when set, SearchNews blocks until closed
}

func (m *mockLLM) SearchNews(ctx context.Context, query string) ([]domain.NewsArticle, error) {
	m.searchCalls++
	if m.gate != nil {
		<-m.gate
	}
	return m.articles, m.searchErr
}

func (m *mockLLM) GenerateBlog(ctx context.Context, prompt, systemInstruction string) (string, error) {
	m.generateCalls++
	return m.blogText, m.blogErr
}

func (m *mockLLM) ExtractMetadata(ctx context.Context, text string) (llm.Metadata, error) {
	return m.meta, nil
}

func (m *mockLLM) ResearchTopic(ctx context.Context, query string) ([]domain.Insight, error) {
	return m.insights, nil
}

func newTestRunner(t *testing.T, mock *mockLLM) (*Runner, *store.Store, *Supervisor) {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	super := NewSupervisor()
	runner := NewRunner(st, ledger.New(st), mock, super)
	return runner, st, super
}

func drain(t *testing.T, super *Supervisor) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := super.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func TestNewsFetch_ReturnsJobIDBeforeWorkCompletes(t *testing.T) {
	mock := &mockLLM{gate: make(chan struct{})}
	runner, st, super := newTestRunner(t, mock)

	jobID, err := runner.StartNewsFetch("fintech")
	if err != nil {
		t.Fatal(err)
	}

	// The pipeline is blocked on the gate; the job must already be pollable
	job, err := st.GetJob(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if job == nil {
		t.Fatal("job not resolvable immediately after start")
	}
	if job.Status != domain.JobRunning {
		t.Errorf("Status = %q, want running while work is in flight", job.Status)
	}

	close(mock.gate)
	drain(t, super)
}

func TestNewsFetch_EndToEnd(t *testing.T) {
	mock := &mockLLM{
		articles: []domain.NewsArticle{
			{Title: "A", URL: "https://news.example/a"},
			{Title: "B", URL: "https://news.example/b"},
			{Title: "Dup", URL: "https://news.example/existing"},
		},
	}
	runner, st, super := newTestRunner(t, mock)

	// Pre-existing row that one fetched article duplicates
	if _, err := st.InsertArticle(&domain.NewsArticle{
		Title: "Existing", URL: "https://news.example/existing",
	}); err != nil {
		t.Fatal(err)
	}

	jobID, err := runner.StartNewsFetch("fintech")
	if err != nil {
		t.Fatal(err)
	}
	drain(t, super)

	job, _ := st.GetJob(jobID)
	if job.Status != domain.JobSuccess {
		t.Fatalf("Status = %q, want success (logs: %s)", job.Status, job.Logs)
	}
	if job.Progress != 100 {
		t.Errorf("Progress = %d, want 100", job.Progress)
	}
	if !strings.Contains(job.Logs, "Skipped duplicate") {
		t.Error("duplicate skip not logged")
	}

	articles, _ := st.ListArticles("", 10)
	if len(articles) != 3 {
		t.Errorf("article rows = %d, want 3 (2 new + 1 pre-existing)", len(articles))
	}

	notifications, _ := st.ListNotifications(10)
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	if notifications[0].Type != domain.NotifySuccess {
		t.Errorf("notification Type = %q, want success", notifications[0].Type)
	}
	if !strings.Contains(notifications[0].Message, "2") {
		t.Errorf("notification Message = %q, want it to mention 2 new articles", notifications[0].Message)
	}
}

func TestNewsFetch_NoResults(t *testing.T) {
	mock := &mockLLM{}
	runner, st, super := newTestRunner(t, mock)

	jobID, err := runner.StartNewsFetch("fintech")
	if err != nil {
		t.Fatal(err)
	}
	drain(t, super)

	job, _ := st.GetJob(jobID)
	if job.Status != domain.JobFailed {
		t.Errorf("Status = %q, want failed", job.Status)
	}

	articles, _ := st.ListArticles("", 10)
	if len(articles) != 0 {
		t.Errorf("article rows = %d, want 0", len(articles))
	}

	notifications, _ := st.ListNotifications(10)
	if len(notifications) != 1 || notifications[0].Type != domain.NotifyWarning {
		t.Errorf("notifications = %+v, want one warning", notifications)
	}
}

func TestNewsFetch_SearchErrorTakesFailurePath(t *testing.T) {
	mock := &mockLLM{searchErr: errors.New(strings.Repeat("upstream exploded ", 10))}
	runner, st, super := newTestRunner(t, mock)

	jobID, _ := runner.StartNewsFetch("fintech")
	drain(t, super)

	job, _ := st.GetJob(jobID)
	if job.Status != domain.JobFailed {
		t.Fatalf("Status = %q, want failed", job.Status)
	}
	// Message is truncated; full error lives in logs and notification
	if len(job.Message) > failMessageLimit+3 {
		t.Errorf("Message length = %d, want truncated to ~%d", len(job.Message), failMessageLimit)
	}
	if !strings.Contains(job.Logs, "upstream exploded") {
		t.Error("full error not logged")
	}

	notifications, _ := st.ListNotifications(10)
	if len(notifications) != 1 || notifications[0].Type != domain.NotifyError {
		t.Fatalf("notifications = %+v, want one error", notifications)
	}
	if !strings.Contains(notifications[0].Message, "upstream exploded") {
		t.Error("notification missing full error message")
	}
}

func TestBlogGeneration_NotEnoughArticles(t *testing.T) {
	mock := &mockLLM{blogText: "should not be used"}
	runner, st, super := newTestRunner(t, mock)

	jobID, err := runner.StartBlogGeneration(0, "")
	if err != nil {
		t.Fatal(err)
	}
	drain(t, super)

	job, _ := st.GetJob(jobID)
	if job.Status != domain.JobFailed {
		t.Errorf("Status = %q, want failed", job.Status)
	}
	if !strings.Contains(job.Message, "Not enough") {
		t.Errorf("Message = %q, want not-enough-articles", job.Message)
	}
	if mock.generateCalls != 0 {
		t.Errorf("generate calls = %d, want 0 (fail before the LLM)", mock.generateCalls)
	}

	notifications, _ := st.ListNotifications(10)
	if len(notifications) != 1 || notifications[0].Type != domain.NotifyWarning {
		t.Errorf("notifications = %+v, want one warning", notifications)
	}
}

func TestBlogGeneration_Success(t *testing.T) {
	mock := &mockLLM{
		blogText: "Generated body",
		meta:     llm.Metadata{Title: "Weekly digest", Excerpt: "Short.", Tags: []string{"news"}},
	}
	runner, st, super := newTestRunner(t, mock)

	st.InsertArticle(&domain.NewsArticle{Title: "Src", URL: "https://news.example/src"})
	writerID, _ := st.CreateWriter(&domain.Writer{Name: "Nima", IsDefault: true})

	jobID, err := runner.StartBlogGeneration(0, "")
	if err != nil {
		t.Fatal(err)
	}
	drain(t, super)

	job, _ := st.GetJob(jobID)
	if job.Status != domain.JobSuccess {
		t.Fatalf("Status = %q, want success (logs: %s)", job.Status, job.Logs)
	}

	blogs, _ := st.ListBlogs(10)
	if len(blogs) != 1 {
		t.Fatalf("blogs = %d, want 1", len(blogs))
	}
	if blogs[0].Title != "Weekly digest" {
		t.Errorf("Title = %q, want extracted metadata title", blogs[0].Title)
	}
	if blogs[0].WriterID == nil || *blogs[0].WriterID != writerID {
		t.Errorf("WriterID = %v, want default writer %d", blogs[0].WriterID, writerID)
	}

	// Source articles consumed
	fresh, _ := st.ListArticles(domain.ArticleNew, 10)
	if len(fresh) != 0 {
		t.Errorf("unused articles = %d, want 0 after generation", len(fresh))
	}
}

func TestSelectWriter_FallbackChain(t *testing.T) {
	runner, st, _ := newTestRunner(t, &mockLLM{})

	// (d) no writers at all: placeholder, never persisted
	w := runner.selectWriter(0)
	if w.ID != 0 {
		t.Errorf("placeholder ID = %d, want 0", w.ID)
	}
	if w.Name == "" {
		t.Error("placeholder has no name")
	}
	if writers, _ := st.ListWriters(); len(writers) != 0 {
		t.Error("placeholder was persisted")
	}

	// (c) no default: earliest row by id
	first, _ := st.CreateWriter(&domain.Writer{Name: "First"})
	st.CreateWriter(&domain.Writer{Name: "Second"})
	if w = runner.selectWriter(0); w.ID != first {
		t.Errorf("selected %d, want first writer %d", w.ID, first)
	}

	// (b) a default exists
	def, _ := st.CreateWriter(&domain.Writer{Name: "Default", IsDefault: true})
	if w = runner.selectWriter(0); w.ID != def {
		t.Errorf("selected %d, want default %d", w.ID, def)
	}

	// (a) explicit id wins over the default
	explicit, _ := st.CreateWriter(&domain.Writer{Name: "Explicit"})
	if w = runner.selectWriter(explicit); w.ID != explicit {
		t.Errorf("selected %d, want explicit %d", w.ID, explicit)
	}

	// Unknown explicit id falls through the chain
	if w = runner.selectWriter(9999); w.ID != def {
		t.Errorf("selected %d, want fallback to default %d", w.ID, def)
	}
}

func TestResearch_Success(t *testing.T) {
	mock := &mockLLM{insights: []domain.Insight{
		{Topic: "adoption", Summary: "growing"},
		{Topic: "pricing", Summary: "volatile"},
	}}
	runner, st, super := newTestRunner(t, mock)

	jobID, err := runner.StartResearch("embedded payments", 0)
	if err != nil {
		t.Fatal(err)
	}
	drain(t, super)

	job, _ := st.GetJob(jobID)
	if job.Status != domain.JobSuccess {
		t.Fatalf("Status = %q, want success", job.Status)
	}

	tasks, _ := st.ListResearchTasks(10)
	if len(tasks) != 1 {
		t.Fatalf("research tasks = %d, want 1", len(tasks))
	}
	if len(tasks[0].Results) != 2 {
		t.Errorf("insights = %d, want 2", len(tasks[0].Results))
	}
}

func TestAnnouncement_Success(t *testing.T) {
	mock := &mockLLM{blogText: "We shipped a thing."}
	runner, st, super := newTestRunner(t, mock)

	jobID, err := runner.StartAnnouncement("Realtime sync", "- syncs in realtime", 0)
	if err != nil {
		t.Fatal(err)
	}
	drain(t, super)

	job, _ := st.GetJob(jobID)
	if job.Status != domain.JobSuccess {
		t.Fatalf("Status = %q, want success", job.Status)
	}

	announcements, _ := st.ListAnnouncements(10)
	if len(announcements) != 1 || announcements[0].Title != "Realtime sync" {
		t.Errorf("announcements = %+v, want the created one", announcements)
	}
}

func TestCancelledJobStaysCancelled(t *testing.T) {
	mock := &mockLLM{
		gate:     make(chan struct{}),
		articles: []domain.NewsArticle{{Title: "Late", URL: "https://news.example/late"}},
	}
	runner, st, super := newTestRunner(t, mock)

	jobID, _ := runner.StartNewsFetch("fintech")

	// External cancel while the pipeline is blocked mid-flight
	if err := st.CancelJob(jobID); err != nil {
		t.Fatal(err)
	}

	close(mock.gate)
	drain(t, super)

	// The pipeline ran to completion (cancellation is advisory) but the
	// terminal cancelled state absorbed its completion attempt.
	job, _ := st.GetJob(jobID)
	if job.Status != domain.JobCancelled {
		t.Errorf("Status = %q, want cancelled to be absorbing", job.Status)
	}
	if job.Message != "Cancelled by user" {
		t.Errorf("Message = %q, want Cancelled by user", job.Message)
	}
}
