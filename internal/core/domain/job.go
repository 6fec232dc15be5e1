package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of an ingestion job
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// IsTerminal returns true if no further transition is possible
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// IsValid returns true for known statuses
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo enforces the monotonic job state machine:
// PENDING -> PROCESSING -> {COMPLETED | FAILED}. FAILED is also
// reachable directly from PENDING, for jobs whose work item could not
// be dispatched and that no worker will ever claim.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusProcessing || next == JobStatusFailed
	case JobStatusProcessing:
		return next == JobStatusCompleted || next == JobStatusFailed
	default:
		return false
	}
}

// IngestionJob is the durable record of one URL ingestion request.
// Exactly one job exists per request; jobs are never merged or
// deduplicated by URL.
type IngestionJob struct {
	// ID is the unique identifier, assigned at creation, immutable
	ID string `json:"id"`

	// SourceURL is the URL submitted for ingestion, immutable once set
	SourceURL string `json:"source_url"`

	// Status is the current lifecycle state
	Status JobStatus `json:"status"`

	// ErrorDetail carries a human-readable cause, set only when Status is FAILED
	ErrorDetail string `json:"error_detail,omitempty"`

	// CreatedAt is when the job was submitted
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt changes on every status transition
	UpdatedAt time.Time `json:"updated_at"`
}

// NewIngestionJob creates a job in the PENDING state
func NewIngestionJob(sourceURL string) *IngestionJob {
	now := time.Now()
	return &IngestionJob{
		ID:        uuid.NewString(),
		SourceURL: sourceURL,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkProcessing transitions the job to PROCESSING
func (j *IngestionJob) MarkProcessing() error {
	return j.transition(JobStatusProcessing)
}

// MarkCompleted transitions the job to COMPLETED
func (j *IngestionJob) MarkCompleted() error {
	return j.transition(JobStatusCompleted)
}

// MarkFailed transitions the job to FAILED with the given cause
func (j *IngestionJob) MarkFailed(detail string) error {
	if err := j.transition(JobStatusFailed); err != nil {
		return err
	}
	j.ErrorDetail = detail
	return nil
}

func (j *IngestionJob) transition(next JobStatus) error {
	if !j.Status.CanTransitionTo(next) {
		return fmt.Errorf("invalid job transition %s -> %s: %w", j.Status, next, ErrInvalidTransition)
	}
	j.Status = next
	j.UpdatedAt = time.Now()
	return nil
}
