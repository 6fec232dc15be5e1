package driving

import (
	"context"

	"github.com/weavelabs/ragcore/internal/core/domain"
)

// JobStatusInfo is the status view returned to callers polling a job
type JobStatusInfo struct {
	Job *domain.IngestionJob `json:"job"`

	// ChunkCount is how many chunks the job has contributed to the index
	ChunkCount int `json:"chunk_count"`
}

// IngestionService accepts URLs for asynchronous ingestion and reports
// job progress.
type IngestionService interface {
	// Submit validates the URL, creates a PENDING job and enqueues
	// exactly one unit of work. It returns immediately with the job;
	// processing errors are surfaced only via Status.
	Submit(ctx context.Context, url string) (*domain.IngestionJob, error)

	// Status returns the current state of a job.
	// Returns domain.ErrNotFound for unknown IDs.
	Status(ctx context.Context, jobID string) (*JobStatusInfo, error)
}
