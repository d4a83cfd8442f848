package domain

import "time"

// AgentType identifies which kind of agent owns a job
type AgentType string

const (
	AgentResearcher AgentType = "researcher"
	AgentWriter     AgentType = "writer"
	AgentEditor     AgentType = "editor"
	AgentPublisher  AgentType = "publisher"
)

// JobStatus represents the lifecycle state of a job
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSuccess   JobStatus = "success"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status is absorbing; no transition leaves it
func (s JobStatus) Terminal() bool {
	switch s {
	case JobSuccess, JobFailed, JobCancelled:
		return true
	}
	return false
}

// Job represents one asynchronous unit of agent work
type Job struct {
	ID         int64
	AgentType  AgentType
	Status     JobStatus
	Progress   int // 0-100
	Message    string
	Logs       string // append-only newline-delimited blob
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
}

// Finished reports whether the job has reached a terminal state
func (j *Job) Finished() bool {
	return j.Status.Terminal()
}
