package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weavelabs/ragcore/internal/chunker"
	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven"
)

// IngestionPipeline runs the scrape -> clean -> chunk -> embed -> index
// flow for one job. It is a stateless orchestrator: all state lives in
// the JobStore and VectorIndex, which are safe for concurrent workers.
//
// Chunk writes are buffered and committed in one atomic insert after
// every embedding succeeded, so a FAILED job never leaves partial
// writes in the index.
type IngestionPipeline struct {
	jobs     driven.JobStore
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	fetcher  driven.PageFetcher
	chunkCfg chunker.Config
	logger   *slog.Logger
}

// IngestionPipelineConfig holds dependencies for IngestionPipeline.
type IngestionPipelineConfig struct {
	Jobs     driven.JobStore
	Index    driven.VectorIndex
	Embedder driven.EmbeddingService
	Fetcher  driven.PageFetcher
	ChunkCfg chunker.Config
	Logger   *slog.Logger
}

// NewIngestionPipeline creates a new ingestion pipeline.
func NewIngestionPipeline(cfg IngestionPipelineConfig) *IngestionPipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	chunkCfg := cfg.ChunkCfg
	if chunkCfg.Size == 0 {
		chunkCfg = chunker.DefaultConfig()
	}

	return &IngestionPipeline{
		jobs:     cfg.Jobs,
		index:    cfg.Index,
		embedder: cfg.Embedder,
		fetcher:  cfg.Fetcher,
		chunkCfg: chunkCfg,
		logger:   logger,
	}
}

// Process handles one delivery of (job_id, url). It is idempotent under
// redelivery: only a PENDING job can be claimed, so a job already
// processing or terminal is skipped as a no-op.
//
// A returned error means the delivery itself could not be handled and
// the task should be retried by the queue. Job-level failures (fetch,
// empty content, embedding, index write) are recorded on the job as
// error_detail and return nil - they are never propagated to the
// submission caller and redelivery cannot fix them.
func (p *IngestionPipeline) Process(ctx context.Context, jobID, sourceURL string) error {
	start := time.Now()
	logger := p.logger.With("job_id", jobID, "url", sourceURL)

	_, err := p.jobs.Claim(ctx, jobID)
	switch {
	case errors.Is(err, domain.ErrAlreadyClaimed):
		logger.Info("job already claimed or terminal, skipping redelivery")
		return nil
	case errors.Is(err, domain.ErrNotFound):
		logger.Warn("job not found for delivered task, skipping")
		return nil
	case err != nil:
		return fmt.Errorf("failed to claim job: %w", err)
	}

	logger.Info("ingestion started")

	chunks, err := p.buildChunks(ctx, jobID, sourceURL)
	if err != nil {
		return p.fail(ctx, logger, jobID, err)
	}

	if err := p.index.Insert(ctx, chunks); err != nil {
		return p.fail(ctx, logger, jobID, fmt.Errorf("%w: %v", domain.ErrIndexWrite, err))
	}

	if err := p.jobs.MarkCompleted(ctx, jobID); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}

	logger.Info("ingestion completed",
		"chunks", len(chunks),
		"duration", time.Since(start),
	)
	return nil
}

// buildChunks runs fetch -> clean -> chunk -> embed and returns the
// fully embedded chunks, without touching the index.
func (p *IngestionPipeline) buildChunks(ctx context.Context, jobID, sourceURL string) ([]*domain.Chunk, error) {
	page, err := p.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(page.Text)
	if text == "" {
		return nil, fmt.Errorf("%w at %s", domain.ErrEmptyContent, sourceURL)
	}

	segments, err := chunker.Split(text, p.chunkCfg)
	if err != nil {
		return nil, fmt.Errorf("chunking failed: %w", err)
	}

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}

	// All or nothing: a single failed embedding fails the whole job.
	embeddings, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}
	if len(embeddings) != len(segments) {
		return nil, fmt.Errorf("%w: provider returned %d embeddings for %d chunks",
			domain.ErrEmbeddingFailed, len(embeddings), len(segments))
	}

	now := time.Now()
	chunks := make([]*domain.Chunk, len(segments))
	for i, seg := range segments {
		chunks[i] = &domain.Chunk{
			ID:             uuid.NewString(),
			JobID:          jobID,
			SourceURL:      sourceURL,
			Position:       i,
			Text:           seg.Text,
			Embedding:      embeddings[i],
			EmbeddingModel: p.embedder.Model(),
			CreatedAt:      now,
		}
	}
	return chunks, nil
}

// fail records the cause on the job. The error is swallowed on purpose:
// the submission caller already has their job id and learns the outcome
// via status lookup.
func (p *IngestionPipeline) fail(ctx context.Context, logger *slog.Logger, jobID string, cause error) error {
	logger.Error("ingestion failed", "error", cause)

	if err := p.jobs.MarkFailed(ctx, jobID, cause.Error()); err != nil {
		logger.Error("failed to record job failure", "error", err)
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}
