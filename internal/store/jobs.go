package store

import (
	"database/sql"
	"time"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// CreateJob inserts a new job row with status=running and progress=0 and
// returns its identity. The id must be available before any work begins.
func (s *Store) CreateJob(agentType domain.AgentType) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO jobs (agent_type, status, progress, message, started_at)
		VALUES (?, ?, 0, ?, ?)
	`, string(agentType), string(domain.JobRunning), "Starting...", time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetJob retrieves a job by id. Returns nil, nil if not found.
func (s *Store) GetJob(id int64) (*domain.Job, error) {
	row := s.db.QueryRow(`
		SELECT id, agent_type, status, progress, message, logs, started_at, finished_at, created_at
		FROM jobs WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// ListJobs returns the most recent jobs, newest first
func (s *Store) ListJobs(limit int) ([]*domain.Job, error) {
	rows, err := s.db.Query(`
		SELECT id, agent_type, status, progress, message, logs, started_at, finished_at, created_at
		FROM jobs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// UpdateJobProgress updates only the progress and message fields.
// Terminal jobs are left untouched so a cancelled job keeps its state even
// while the pipeline that owns it is still reporting.
func (s *Store) UpdateJobProgress(id int64, progress int, message string) error {
	_, err := s.db.Exec(`
		UPDATE jobs SET progress = ?, message = ?
		WHERE id = ? AND status NOT IN ('success', 'failed', 'cancelled')
	`, progress, message, id)
	return err
}

// UpdateJobLogs replaces the logs blob for a job. The read-append-write
// cycle lives in the ledger; a single runner owns each job so the
// non-atomic update is safe in practice. Terminal jobs are left untouched.
func (s *Store) UpdateJobLogs(id int64, logs string) error {
	_, err := s.db.Exec(`
		UPDATE jobs SET logs = ?
		WHERE id = ? AND status NOT IN ('success', 'failed', 'cancelled')
	`, logs, id)
	return err
}

// CompleteJob moves a job to a terminal state. Progress is forced to 100 on
// success and 0 on failure rather than left at its last reported value.
// Already-terminal jobs are left untouched.
func (s *Store) CompleteJob(id int64, status domain.JobStatus, message string) error {
	progress := 0
	if status == domain.JobSuccess {
		progress = 100
	}
	_, err := s.db.Exec(`
		UPDATE jobs SET status = ?, progress = ?, message = ?, finished_at = ?
		WHERE id = ? AND status NOT IN ('success', 'failed', 'cancelled')
	`, string(status), progress, message, time.Now(), id)
	return err
}

// CancelJob flips a non-terminal job to cancelled. It only marks the record
// so pollers stop waiting; it does not interrupt in-flight work.
func (s *Store) CancelJob(id int64) error {
	_, err := s.db.Exec(`
		UPDATE jobs SET status = ?, message = ?, finished_at = ?
		WHERE id = ? AND status NOT IN ('success', 'failed', 'cancelled')
	`, string(domain.JobCancelled), "Cancelled by user", time.Now(), id)
	return err
}

// scannable covers *sql.Row and *sql.Rows
type scannable interface {
	Scan(dest ...any) error
}

func scanJob(row scannable) (*domain.Job, error) {
	var job domain.Job
	var agentType, status string
	var startedAt, finishedAt sql.NullTime

	err := row.Scan(&job.ID, &agentType, &status, &job.Progress, &job.Message,
		&job.Logs, &startedAt, &finishedAt, &job.CreatedAt)
	if err != nil {
		return nil, err
	}

	job.AgentType = domain.AgentType(agentType)
	job.Status = domain.JobStatus(status)
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		job.FinishedAt = &t
	}

	return &job, nil
}
