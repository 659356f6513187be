// Package jobs provides asynchronous job tracking for long-running work such
// as report extraction and data sync. Jobs run on their own goroutines; their
// lifecycle is recorded through a pluggable Store.
package jobs

import (
	"time"
)

// Status represents the current state of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is one tracked job.
type Record struct {
	ID          string         `json:"id"`
	JobType     string         `json:"job_type"`
	Status      Status         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
	Result      map[string]any `json:"result,omitempty"`
}

// NewRecord creates a queued job record.
func NewRecord(jobType string) *Record {
	return &Record{
		JobType:   jobType,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
}

// Store abstracts job persistence so the tracking backend can be swapped
// without touching job submission.
type Store interface {
	// Create persists a new record and returns its assigned ID.
	Create(rec *Record) (string, error)

	// Get returns the record with the given ID.
	Get(id string) (*Record, error)

	// List returns all records, newest first.
	List() ([]*Record, error)

	// Update replaces the stored record with the same ID.
	Update(rec *Record) error
}
