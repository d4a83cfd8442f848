package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// Store is the persistence surface the API reads and writes
type Store interface {
	GetJob(id int64) (*domain.Job, error)
	ListJobs(limit int) ([]*domain.Job, error)
	CancelJob(id int64) error

	ListNotifications(limit int) ([]*domain.Notification, error)
	UnreadNotificationCount() (int, error)
	MarkNotificationRead(id int64) error
	MarkAllNotificationsRead() error

	ListArticles(status domain.ArticleStatus, limit int) ([]*domain.NewsArticle, error)
	ListBlogs(limit int) ([]*domain.Blog, error)
	ListResearchTasks(limit int) ([]*domain.ResearchTask, error)
	ListAnnouncements(limit int) ([]*domain.FeatureAnnouncement, error)

	CreateWriter(w *domain.Writer) (int64, error)
	UpdateWriter(w *domain.Writer) error
	DeleteWriter(id int64) error
	GetWriter(id int64) (*domain.Writer, error)
	ListWriters() ([]*domain.Writer, error)

	GetCompanySettings() (*domain.CompanySettings, error)
	SaveCompanySettings(cs *domain.CompanySettings) error
	GetAgentSettings() (*domain.AgentSettings, error)
	SaveAgentSettings(as *domain.AgentSettings) error
}

// Runner starts agent pipelines and returns the tracking job id
type Runner interface {
	StartNewsFetch(industry string) (int64, error)
	StartBlogGeneration(writerID int64, prompt string) (int64, error)
	StartResearch(query string, writerID int64) (int64, error)
	StartAnnouncement(title, facts string, writerID int64) (int64, error)
}

// Server is the HTTP API server
type Server struct {
	store  Store
	runner Runner
	addr   string
	mux    *http.ServeMux
}

// NewServer creates a new API server
func NewServer(store Store, runner Runner, addr string) *Server {
	s := &Server{
		store:  store,
		runner: runner,
		addr:   addr,
		mux:    http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/status", s.statusHandler())

	// Agent triggers
	s.mux.HandleFunc("/api/agents/news/fetch", s.newsFetchHandler())
	s.mux.HandleFunc("/api/agents/blog/generate", s.blogGenerateHandler())
	s.mux.HandleFunc("/api/agents/research/start", s.researchStartHandler())
	s.mux.HandleFunc("/api/agents/announcement/create", s.announcementCreateHandler())

	// Job polling
	s.mux.HandleFunc("/api/jobs", s.listJobsHandler())
	s.mux.HandleFunc("/api/jobs/", s.jobHandler())

	// Notifications
	s.mux.HandleFunc("/api/notifications", s.listNotificationsHandler())
	s.mux.HandleFunc("/api/notifications/read-all", s.readAllNotificationsHandler())
	s.mux.HandleFunc("/api/notifications/", s.readNotificationHandler())

	// Content
	s.mux.HandleFunc("/api/articles", s.listArticlesHandler())
	s.mux.HandleFunc("/api/blogs", s.listBlogsHandler())
	s.mux.HandleFunc("/api/research", s.listResearchHandler())
	s.mux.HandleFunc("/api/announcements", s.listAnnouncementsHandler())

	// Writers
	s.mux.HandleFunc("/api/writers", s.writersHandler())
	s.mux.HandleFunc("/api/writers/", s.writerHandler())

	// Settings
	s.mux.HandleFunc("/api/settings/company", s.companySettingsHandler())
	s.mux.HandleFunc("/api/settings/agent", s.agentSettingsHandler())
}

// Handler returns the routed handler with request logging applied
func (s *Server) Handler() http.Handler {
	return requestLog(s.mux)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return http.ListenAndServe(s.addr, s.Handler())
}

// requestLog tags every request with an id and logs its outcome
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)

		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %s", reqID[:8], r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeStarted(w http.ResponseWriter, jobID int64, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{Success: true, Data: StartedResponse{JobID: jobID}, Message: message})
}

func writeMessage(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(envelope{Success: false, Error: message})
}
