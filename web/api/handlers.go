package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brandpulse/content-orchestrator/internal/domain"
	"github.com/brandpulse/content-orchestrator/internal/schedule"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// JobResponse is the API response for a job
type JobResponse struct {
	ID         int64   `json:"id"`
	AgentType  string  `json:"agent_type"`
	Status     string  `json:"status"`
	Progress   int     `json:"progress"`
	Message    string  `json:"message"`
	Logs       string  `json:"logs,omitempty"`
	StartedAt  *string `json:"started_at,omitempty"`
	FinishedAt *string `json:"finished_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// NotificationResponse is the API response for a notification
type NotificationResponse struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Category     string `json:"category,omitempty"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	ActionText   string `json:"action_text,omitempty"`
	ActionURL    string `json:"action_url,omitempty"`
	RelatedJobID *int64 `json:"related_job_id,omitempty"`
	IsRead       bool   `json:"is_read"`
	CreatedAt    string `json:"created_at"`
}

// StatusResponse is the API response for the dashboard overview
type StatusResponse struct {
	RunningJobs         int `json:"running_jobs"`
	UnreadNotifications int `json:"unread_notifications"`
	NewArticles         int `json:"new_articles"`
	Blogs               int `json:"blogs"`
}

// StartedResponse acknowledges a fire-and-forget agent start
type StartedResponse struct {
	JobID int64 `json:"job_id"`
}

func jobToResponse(j *domain.Job, includeLogs bool) JobResponse {
	resp := JobResponse{
		ID:        j.ID,
		AgentType: string(j.AgentType),
		Status:    string(j.Status),
		Progress:  j.Progress,
		Message:   j.Message,
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
	}
	if includeLogs {
		resp.Logs = j.Logs
	}
	if j.StartedAt != nil {
		t := j.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &t
	}
	if j.FinishedAt != nil {
		t := j.FinishedAt.Format(time.RFC3339)
		resp.FinishedAt = &t
	}
	return resp
}

func notificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         string(n.Type),
		Category:     n.Category,
		Title:        n.Title,
		Message:      n.Message,
		ActionText:   n.ActionText,
		ActionURL:    n.ActionURL,
		RelatedJobID: n.RelatedJobID,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt.Format(time.RFC3339),
	}
}

// parseLimit clamps the ?limit= query parameter to [1, maxListLimit]
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) statusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		jobs, err := s.store.ListJobs(maxListLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		var status StatusResponse
		for _, j := range jobs {
			if j.Status == domain.JobRunning || j.Status == domain.JobQueued {
				status.RunningJobs++
			}
		}

		if status.UnreadNotifications, err = s.store.UnreadNotificationCount(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		articles, err := s.store.ListArticles(domain.ArticleNew, maxListLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		status.NewArticles = len(articles)

		blogs, err := s.store.ListBlogs(maxListLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		status.Blogs = len(blogs)

		writeJSON(w, status)
	}
}

func (s *Server) newsFetchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req struct {
			Industry string `json:"industry"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		jobID, err := s.runner.StartNewsFetch(req.Industry)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeStarted(w, jobID, "News fetch started")
	}
}

func (s *Server) blogGenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req struct {
			WriterID int64  `json:"writer_id"`
			Prompt   string `json:"prompt"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		jobID, err := s.runner.StartBlogGeneration(req.WriterID, req.Prompt)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeStarted(w, jobID, "Blog generation started")
	}
}

func (s *Server) researchStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req struct {
			Query    string `json:"query"`
			WriterID int64  `json:"writer_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}

		jobID, err := s.runner.StartResearch(req.Query, req.WriterID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeStarted(w, jobID, "Research started")
	}
}

func (s *Server) announcementCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req struct {
			Title    string `json:"title"`
			Facts    string `json:"facts"`
			WriterID int64  `json:"writer_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		if strings.TrimSpace(req.Facts) == "" {
			writeError(w, http.StatusBadRequest, "facts are required")
			return
		}

		jobID, err := s.runner.StartAnnouncement(req.Title, req.Facts, req.WriterID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeStarted(w, jobID, "Announcement generation started")
	}
}

func (s *Server) listJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		jobs, err := s.store.ListJobs(parseLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		responses := make([]JobResponse, len(jobs))
		for i, j := range jobs {
			responses[i] = jobToResponse(j, false)
		}

		writeJSON(w, responses)
	}
}

// jobHandler covers GET /api/jobs/{id} and POST /api/jobs/{id}/cancel
func (s *Server) jobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		cancel := strings.HasSuffix(path, "/cancel")
		path = strings.TrimSuffix(path, "/cancel")

		id, err := strconv.ParseInt(path, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid job id")
			return
		}

		job, err := s.store.GetJob(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if job == nil {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}

		if cancel {
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, "method not allowed")
				return
			}
			if err := s.store.CancelJob(id); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeMessage(w, "job cancelled")
			return
		}

		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, jobToResponse(job, true))
	}
}

func (s *Server) listNotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		notifications, err := s.store.ListNotifications(parseLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		unread, err := s.store.UnreadNotificationCount()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		responses := make([]NotificationResponse, len(notifications))
		for i, n := range notifications {
			responses[i] = notificationToResponse(n)
		}

		writeJSON(w, map[string]interface{}{
			"notifications": responses,
			"unread_count":  unread,
		})
	}
}

func (s *Server) readAllNotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if err := s.store.MarkAllNotificationsRead(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeMessage(w, "all notifications marked read")
	}
}

// readNotificationHandler covers POST /api/notifications/{id}/read
func (s *Server) readNotificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
		path = strings.TrimSuffix(path, "/read")
		id, err := strconv.ParseInt(path, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid notification id")
			return
		}

		if err := s.store.MarkNotificationRead(id); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeMessage(w, "notification marked read")
	}
}

func (s *Server) listArticlesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		status := domain.ArticleStatus(r.URL.Query().Get("status"))
		articles, err := s.store.ListArticles(status, parseLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, articles)
	}
}

func (s *Server) listBlogsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		blogs, err := s.store.ListBlogs(parseLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, blogs)
	}
}

func (s *Server) listResearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		tasks, err := s.store.ListResearchTasks(parseLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, tasks)
	}
}

func (s *Server) listAnnouncementsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		announcements, err := s.store.ListAnnouncements(parseLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, announcements)
	}
}

// writerRequest is the request body for creating or updating a writer
type writerRequest struct {
	Name        string             `json:"name"`
	Bio         string             `json:"bio"`
	Personality []string           `json:"personality"`
	Style       domain.WriterStyle `json:"style"`
	ModelConfig domain.ModelConfig `json:"model_config"`
	IsDefault   bool               `json:"is_default"`
}

func (req *writerRequest) toDomain() *domain.Writer {
	return &domain.Writer{
		Name:        req.Name,
		Bio:         req.Bio,
		Personality: req.Personality,
		Style:       req.Style,
		ModelConfig: req.ModelConfig,
		IsDefault:   req.IsDefault,
	}
}

// writersHandler covers GET and POST /api/writers
func (s *Server) writersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writers, err := s.store.ListWriters()
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, writers)

		case http.MethodPost:
			var req writerRequest
			if !decodeBody(w, r, &req) {
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				writeError(w, http.StatusBadRequest, "name is required")
				return
			}

			id, err := s.store.CreateWriter(req.toDomain())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}

			writer, err := s.store.GetWriter(id)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, writer)

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// writerHandler covers GET, PUT and DELETE /api/writers/{id}
func (s *Server) writerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/writers/")
		id, err := strconv.ParseInt(path, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid writer id")
			return
		}

		writer, err := s.store.GetWriter(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if writer == nil {
			writeError(w, http.StatusNotFound, "writer not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			writeJSON(w, writer)

		case http.MethodPut:
			var req writerRequest
			if !decodeBody(w, r, &req) {
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				writeError(w, http.StatusBadRequest, "name is required")
				return
			}

			updated := req.toDomain()
			updated.ID = id
			if err := s.store.UpdateWriter(updated); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}

			writer, err = s.store.GetWriter(id)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, writer)

		case http.MethodDelete:
			if err := s.store.DeleteWriter(id); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeMessage(w, "writer deleted")

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// companySettingsHandler covers GET and PUT /api/settings/company
func (s *Server) companySettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cs, err := s.store.GetCompanySettings()
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, cs)

		case http.MethodPut:
			var cs domain.CompanySettings
			if !decodeBody(w, r, &cs) {
				return
			}
			if err := s.store.SaveCompanySettings(&cs); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeMessage(w, "company settings saved")

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// agentSettingsHandler covers GET and PUT /api/settings/agent
func (s *Server) agentSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			as, err := s.store.GetAgentSettings()
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, as)

		case http.MethodPut:
			var as domain.AgentSettings
			if !decodeBody(w, r, &as) {
				return
			}
			if as.FetchCron != "" {
				if _, err := schedule.ParseCron(as.FetchCron); err != nil {
					writeError(w, http.StatusBadRequest, "invalid cron expression")
					return
				}
			}
			if err := s.store.SaveAgentSettings(&as); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeMessage(w, "agent settings saved")

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}
