package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/lib/pq"

	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex implements driven.VectorIndex using PostgreSQL.
// Embeddings are stored as REAL[] and ranked by cosine similarity in
// process. Rows come back ordered by seq, so equal scores resolve to
// insertion order under the stable sort.
type VectorIndex struct {
	db *DB
}

// NewVectorIndex creates a new VectorIndex
func NewVectorIndex(db *DB) *VectorIndex {
	return &VectorIndex{db: db}
}

// Insert writes a batch of chunks in a single transaction. Either every
// chunk becomes visible or none do; a failed job never leaves partial
// rows behind.
func (s *VectorIndex) Insert(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO chunks (id, job_id, source_url, position, content, embedding, embedding_model, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			_, err = stmt.ExecContext(ctx,
				chunk.ID,
				chunk.JobID,
				chunk.SourceURL,
				chunk.Position,
				chunk.Text,
				pq.Array(chunk.Embedding),
				chunk.EmbeddingModel,
				chunk.CreatedAt,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// Query returns the top k chunks by cosine similarity against embedding.
// Chunks indexed under a different embedding model make the whole query
// fail with ErrModelMismatch rather than silently scoring incompatible
// vectors.
func (s *VectorIndex) Query(ctx context.Context, embedding []float32, model string, k int) ([]domain.ScoredChunk, error) {
	mismatch, err := s.hasOtherModel(ctx, model)
	if err != nil {
		return nil, err
	}
	if mismatch {
		return nil, fmt.Errorf("index holds vectors from another embedding model: %w", domain.ErrModelMismatch)
	}

	query := `
		SELECT id, job_id, source_url, position, content, embedding, embedding_model, created_at
		FROM chunks
		WHERE embedding_model = $1
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, model)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var scored []domain.ScoredChunk
	for rows.Next() {
		var chunk domain.Chunk
		var vec pq.Float32Array

		err := rows.Scan(
			&chunk.ID,
			&chunk.JobID,
			&chunk.SourceURL,
			&chunk.Position,
			&chunk.Text,
			&vec,
			&chunk.EmbeddingModel,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		chunk.Embedding = []float32(vec)
		scored = append(scored, domain.ScoredChunk{
			Chunk: &chunk,
			Score: domain.CosineSimilarity(embedding, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// CountByJob returns how many chunks a job contributed to the index
func (s *VectorIndex) CountByJob(ctx context.Context, jobID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chunks WHERE job_id = $1`, jobID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

func (s *VectorIndex) hasOtherModel(ctx context.Context, model string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM chunks WHERE embedding_model <> $1)`, model,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check embedding models: %w", err)
	}
	return exists, nil
}
