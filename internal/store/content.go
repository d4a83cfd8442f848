package store

import (
	"database/sql"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// InsertArticle inserts a news article row and returns its id
func (s *Store) InsertArticle(a *domain.NewsArticle) (int64, error) {
	status := a.Status
	if status == "" {
		status = domain.ArticleNew
	}
	res, err := s.db.Exec(`
		INSERT INTO news_articles (title, summary, url, source, category, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.Title, a.Summary, a.URL, a.Source, a.Category, string(status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetArticleByURL retrieves an article by its URL, the dedupe key.
// Returns nil, nil if not found.
func (s *Store) GetArticleByURL(url string) (*domain.NewsArticle, error) {
	row := s.db.QueryRow(`
		SELECT id, title, summary, url, source, category, status, created_at
		FROM news_articles WHERE url = ?
	`, url)

	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ListArticles returns articles newest first, optionally filtered by status
func (s *Store) ListArticles(status domain.ArticleStatus, limit int) ([]*domain.NewsArticle, error) {
	query := `SELECT id, title, summary, url, source, category, status, created_at FROM news_articles`
	var args []any

	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*domain.NewsArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// MarkArticlesUsed flips the given articles to used
func (s *Store) MarkArticlesUsed(ids []int64) error {
	for _, id := range ids {
		if _, err := s.db.Exec(`UPDATE news_articles SET status = ? WHERE id = ?`,
			string(domain.ArticleUsed), id); err != nil {
			return err
		}
	}
	return nil
}

func scanArticle(row scannable) (*domain.NewsArticle, error) {
	var a domain.NewsArticle
	var status string
	err := row.Scan(&a.ID, &a.Title, &a.Summary, &a.URL, &a.Source, &a.Category, &status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = domain.ArticleStatus(status)
	return &a, nil
}

// InsertBlog inserts a blog draft and returns its id
func (s *Store) InsertBlog(b *domain.Blog) (int64, error) {
	status := b.Status
	if status == "" {
		status = domain.BlogDraft
	}
	var writerID any
	if b.WriterID != nil {
		writerID = *b.WriterID
	}
	res, err := s.db.Exec(`
		INSERT INTO blogs (title, excerpt, content, tags, writer_id, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.Title, b.Excerpt, b.Content, domain.EncodeJSON(b.Tags), writerID, string(status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListBlogs returns blogs newest first
func (s *Store) ListBlogs(limit int) ([]*domain.Blog, error) {
	rows, err := s.db.Query(`
		SELECT id, title, excerpt, content, tags, writer_id, status, created_at
		FROM blogs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []*domain.Blog
	for rows.Next() {
		var b domain.Blog
		var tags, status string
		var writerID sql.NullInt64

		err := rows.Scan(&b.ID, &b.Title, &b.Excerpt, &b.Content, &tags, &writerID, &status, &b.CreatedAt)
		if err != nil {
			return nil, err
		}

		b.Tags = domain.DecodeOr(tags, []string{})
		b.Status = domain.BlogStatus(status)
		if writerID.Valid {
			id := writerID.Int64
			b.WriterID = &id
		}
		blogs = append(blogs, &b)
	}
	return blogs, rows.Err()
}

// CreateWriter inserts a writer persona and returns its id
func (s *Store) CreateWriter(w *domain.Writer) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO writers (name, bio, personality, style, model_config, is_default)
		VALUES (?, ?, ?, ?, ?, ?)
	`, w.Name, w.Bio, domain.EncodeJSON(w.Personality), domain.EncodeJSON(w.Style),
		domain.EncodeJSON(w.ModelConfig), w.IsDefault)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateWriter updates a writer persona
func (s *Store) UpdateWriter(w *domain.Writer) error {
	_, err := s.db.Exec(`
		UPDATE writers SET name = ?, bio = ?, personality = ?, style = ?, model_config = ?, is_default = ?
		WHERE id = ?
	`, w.Name, w.Bio, domain.EncodeJSON(w.Personality), domain.EncodeJSON(w.Style),
		domain.EncodeJSON(w.ModelConfig), w.IsDefault, w.ID)
	return err
}

// DeleteWriter removes a writer persona
func (s *Store) DeleteWriter(id int64) error {
	_, err := s.db.Exec(`DELETE FROM writers WHERE id = ?`, id)
	return err
}

// GetWriter retrieves a writer by id. Returns nil, nil if not found.
func (s *Store) GetWriter(id int64) (*domain.Writer, error) {
	row := s.db.QueryRow(`
		SELECT id, name, bio, personality, style, model_config, is_default, created_at
		FROM writers WHERE id = ?
	`, id)

	w, err := scanWriter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

// GetDefaultWriter returns the writer flagged is_default, or nil
func (s *Store) GetDefaultWriter() (*domain.Writer, error) {
	row := s.db.QueryRow(`
		SELECT id, name, bio, personality, style, model_config, is_default, created_at
		FROM writers WHERE is_default = TRUE ORDER BY id LIMIT 1
	`)

	w, err := scanWriter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

// FirstWriter returns the earliest writer row by id ordering, or nil
func (s *Store) FirstWriter() (*domain.Writer, error) {
	row := s.db.QueryRow(`
		SELECT id, name, bio, personality, style, model_config, is_default, created_at
		FROM writers ORDER BY id LIMIT 1
	`)

	w, err := scanWriter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

// ListWriters returns all writers by id ordering
func (s *Store) ListWriters() ([]*domain.Writer, error) {
	rows, err := s.db.Query(`
		SELECT id, name, bio, personality, style, model_config, is_default, created_at
		FROM writers ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var writers []*domain.Writer
	for rows.Next() {
		w, err := scanWriter(rows)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	return writers, rows.Err()
}

func scanWriter(row scannable) (*domain.Writer, error) {
	var w domain.Writer
	var personality, style, modelConfig string

	err := row.Scan(&w.ID, &w.Name, &w.Bio, &personality, &style, &modelConfig, &w.IsDefault, &w.CreatedAt)
	if err != nil {
		return nil, err
	}

	w.Personality = domain.DecodeOr(personality, []string{})
	w.Style = domain.DecodeOr(style, domain.WriterStyle{})
	w.ModelConfig = domain.DecodeOr(modelConfig, domain.ModelConfig{})
	return &w, nil
}

// InsertResearchTask records a completed research run
func (s *Store) InsertResearchTask(r *domain.ResearchTask) (int64, error) {
	var writerID any
	if r.WriterID != nil {
		writerID = *r.WriterID
	}
	res, err := s.db.Exec(`
		INSERT INTO research_tasks (query, results, writer_id)
		VALUES (?, ?, ?)
	`, r.Query, domain.EncodeJSON(r.Results), writerID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListResearchTasks returns research runs newest first
func (s *Store) ListResearchTasks(limit int) ([]*domain.ResearchTask, error) {
	rows, err := s.db.Query(`
		SELECT id, query, results, writer_id, created_at
		FROM research_tasks ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.ResearchTask
	for rows.Next() {
		var r domain.ResearchTask
		var results string
		var writerID sql.NullInt64

		if err := rows.Scan(&r.ID, &r.Query, &results, &writerID, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Results = domain.DecodeOr(results, []domain.Insight{})
		if writerID.Valid {
			id := writerID.Int64
			r.WriterID = &id
		}
		tasks = append(tasks, &r)
	}
	return tasks, rows.Err()
}

// InsertAnnouncement records a generated feature announcement
func (s *Store) InsertAnnouncement(a *domain.FeatureAnnouncement) (int64, error) {
	var writerID any
	if a.WriterID != nil {
		writerID = *a.WriterID
	}
	res, err := s.db.Exec(`
		INSERT INTO feature_announcements (title, facts, content, writer_id)
		VALUES (?, ?, ?, ?)
	`, a.Title, a.Facts, a.Content, writerID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAnnouncements returns announcements newest first
func (s *Store) ListAnnouncements(limit int) ([]*domain.FeatureAnnouncement, error) {
	rows, err := s.db.Query(`
		SELECT id, title, facts, content, writer_id, created_at
		FROM feature_announcements ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []*domain.FeatureAnnouncement
	for rows.Next() {
		var a domain.FeatureAnnouncement
		var writerID sql.NullInt64

		if err := rows.Scan(&a.ID, &a.Title, &a.Facts, &a.Content, &writerID, &a.CreatedAt); err != nil {
			return nil, err
		}
		if writerID.Valid {
			id := writerID.Int64
			a.WriterID = &id
		}
		announcements = append(announcements, &a)
	}
	return announcements, rows.Err()
}

// GetCompanySettings returns the brand settings, zero-valued if unset
func (s *Store) GetCompanySettings() (*domain.CompanySettings, error) {
	row := s.db.QueryRow(`
		SELECT name, industry, description, audience, updated_at
		FROM company_settings WHERE id = 1
	`)

	var cs domain.CompanySettings
	err := row.Scan(&cs.Name, &cs.Industry, &cs.Description, &cs.Audience, &cs.UpdatedAt)
	if err == sql.ErrNoRows {
		return &domain.CompanySettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// SaveCompanySettings upserts the single brand settings row
func (s *Store) SaveCompanySettings(cs *domain.CompanySettings) error {
	_, err := s.db.Exec(`
		INSERT INTO company_settings (id, name, industry, description, audience, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			description = excluded.description,
			audience = excluded.audience,
			updated_at = excluded.updated_at
	`, cs.Name, cs.Industry, cs.Description, cs.Audience)
	return err
}

// GetAgentSettings returns the agent behavior settings, defaults if unset
func (s *Store) GetAgentSettings() (*domain.AgentSettings, error) {
	row := s.db.QueryRow(`
		SELECT auto_fetch, fetch_cron, max_articles, updated_at
		FROM agent_settings WHERE id = 1
	`)

	var as domain.AgentSettings
	err := row.Scan(&as.AutoFetch, &as.FetchCron, &as.MaxArticles, &as.UpdatedAt)
	if err == sql.ErrNoRows {
		return &domain.AgentSettings{FetchCron: "0 8 * * *", MaxArticles: 10}, nil
	}
	if err != nil {
		return nil, err
	}
	return &as, nil
}

// SaveAgentSettings upserts the single agent settings row
func (s *Store) SaveAgentSettings(as *domain.AgentSettings) error {
	_, err := s.db.Exec(`
		INSERT INTO agent_settings (id, auto_fetch, fetch_cron, max_articles, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			auto_fetch = excluded.auto_fetch,
			fetch_cron = excluded.fetch_cron,
			max_articles = excluded.max_articles,
			updated_at = excluded.updated_at
	`, as.AutoFetch, as.FetchCron, as.MaxArticles)
	return err
}
