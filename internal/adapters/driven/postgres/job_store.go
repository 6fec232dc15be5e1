package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.JobStore = (*JobStore)(nil)

// JobStore implements driven.JobStore using PostgreSQL
type JobStore struct {
	db *DB
}

// NewJobStore creates a new JobStore
func NewJobStore(db *DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, source_url, status, error_detail, created_at, updated_at`

// Create persists a new job
func (s *JobStore) Create(ctx context.Context, job *domain.IngestionJob) error {
	query := `
		INSERT INTO ingestion_jobs (id, source_url, status, error_detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.SourceURL,
		string(job.Status),
		job.ErrorDetail,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// Get retrieves a job by ID
func (s *JobStore) Get(ctx context.Context, id string) (*domain.IngestionJob, error) {
	query := `SELECT ` + jobColumns + ` FROM ingestion_jobs WHERE id = $1`

	job, err := scanJob(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// Claim atomically moves a PENDING job to PROCESSING. The WHERE clause
// doubles as a compare-and-swap: a job that was already claimed, or has
// already reached a terminal state, matches no rows.
func (s *JobStore) Claim(ctx context.Context, id string) (*domain.IngestionJob, error) {
	query := `
		UPDATE ingestion_jobs
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + jobColumns

	job, err := scanJob(s.db.QueryRowContext(ctx, query,
		string(domain.JobStatusProcessing),
		time.Now(),
		id,
		string(domain.JobStatusPending),
	))
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a missing job from one that is simply not claimable.
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("job %s: %w", id, domain.ErrAlreadyClaimed)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}
	return job, nil
}

// MarkCompleted transitions a PROCESSING job to COMPLETED
func (s *JobStore) MarkCompleted(ctx context.Context, id string) error {
	return s.finish(ctx, id, domain.JobStatusCompleted, "",
		domain.JobStatusProcessing)
}

// MarkFailed transitions a job to FAILED and records the cause. PENDING
// is a valid starting state: a job whose task was never dispatched has
// no worker to claim it first.
func (s *JobStore) MarkFailed(ctx context.Context, id string, detail string) error {
	return s.finish(ctx, id, domain.JobStatusFailed, detail,
		domain.JobStatusPending, domain.JobStatusProcessing)
}

func (s *JobStore) finish(ctx context.Context, id string, status domain.JobStatus, detail string, from ...domain.JobStatus) error {
	fromStatuses := make([]string, len(from))
	for i, f := range from {
		fromStatuses[i] = string(f)
	}

	query := `
		UPDATE ingestion_jobs
		SET status = $1, error_detail = $2, updated_at = $3
		WHERE id = $4 AND status = ANY($5)
	`

	res, err := s.db.ExecContext(ctx, query,
		string(status),
		detail,
		time.Now(),
		id,
		pq.Array(fromStatuses),
	)
	if err != nil {
		return fmt.Errorf("failed to mark job %s: %w", status, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("job cannot transition to %s: %w", status, domain.ErrInvalidTransition)
	}
	return nil
}

// List retrieves jobs ordered by creation time, newest first
func (s *JobStore) List(ctx context.Context, limit, offset int) ([]*domain.IngestionJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM ingestion_jobs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.IngestionJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.IngestionJob, error) {
	var job domain.IngestionJob
	var status string

	err := row.Scan(
		&job.ID,
		&job.SourceURL,
		&status,
		&job.ErrorDetail,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = domain.JobStatus(status)
	return &job, nil
}
