package driven

import (
	"context"

	"github.com/weavelabs/ragcore/internal/core/domain"
)

// VectorIndex persists chunks with their embeddings and supports
// nearest-neighbour retrieval by cosine similarity. It is the exclusive
// owner of Chunk records and must support concurrent inserts from
// workers processing different jobs.
type VectorIndex interface {
	// Insert writes all chunks atomically: either every chunk becomes
	// visible or none do. A failed ingestion therefore contributes no
	// partial writes.
	Insert(ctx context.Context, chunks []*domain.Chunk) error

	// Query returns up to k chunks ordered by descending similarity to
	// the given embedding. Ties are broken by insertion order (earlier
	// wins). An empty index yields an empty slice, never an error.
	// Returns domain.ErrModelMismatch if the index holds embeddings
	// produced by a different model than the one given.
	Query(ctx context.Context, embedding []float32, model string, k int) ([]domain.ScoredChunk, error)

	// CountByJob returns the number of chunks a job contributed
	CountByJob(ctx context.Context, jobID string) (int, error)
}
