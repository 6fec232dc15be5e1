package driven

import (
	"context"

	"github.com/weavelabs/ragcore/internal/core/domain"
)

// JobStore handles ingestion job persistence (PostgreSQL).
// It is the exclusive owner of IngestionJob records and must be safe
// for concurrent access from multiple workers.
type JobStore interface {
	// Create persists a new job (status PENDING)
	Create(ctx context.Context, job *domain.IngestionJob) error

	// Get retrieves a job by ID.
	// Returns domain.ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (*domain.IngestionJob, error)

	// Claim atomically transitions a job from PENDING to PROCESSING and
	// returns the claimed job. This is the idempotent-claim guard: under
	// at-least-once delivery only the first attempt takes effect.
	// Returns domain.ErrAlreadyClaimed if the job is already processing
	// or terminal, domain.ErrNotFound if the ID is unknown.
	Claim(ctx context.Context, id string) (*domain.IngestionJob, error)

	// MarkCompleted transitions a PROCESSING job to COMPLETED.
	// Returns domain.ErrInvalidTransition if the job is not PROCESSING.
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed transitions a PROCESSING job to FAILED with a
	// human-readable cause.
	// Returns domain.ErrInvalidTransition if the job is not PROCESSING.
	MarkFailed(ctx context.Context, id string, detail string) error

	// List retrieves jobs ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.IngestionJob, error)
}
