package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven"
	"github.com/weavelabs/ragcore/internal/core/ports/driving"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

// ingestionService accepts ingestion requests and reports job status.
// Processing happens asynchronously in the worker; this service only
// creates the durable job record and enqueues the work.
type ingestionService struct {
	jobs   driven.JobStore
	index  driven.VectorIndex
	queue  driven.TaskQueue
	logger *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(
	jobs driven.JobStore,
	index driven.VectorIndex,
	queue driven.TaskQueue,
	logger *slog.Logger,
) driving.IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ingestionService{
		jobs:   jobs,
		index:  index,
		queue:  queue,
		logger: logger,
	}
}

// Submit validates the URL, creates a PENDING job and enqueues exactly
// one task. The caller gets the job id back immediately; any processing
// failure is recorded on the job and visible only via Status.
func (s *ingestionService) Submit(ctx context.Context, rawURL string) (*domain.IngestionJob, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	job := domain.NewIngestionJob(rawURL)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	task := domain.NewIngestTask(job.ID, job.SourceURL)
	if err := s.queue.Enqueue(ctx, task); err != nil {
		// The job exists but will never be delivered. Record the failure
		// so a status poll does not show an eternally pending job.
		if failErr := s.jobs.MarkFailed(ctx, job.ID, "failed to enqueue ingestion task"); failErr != nil {
			s.logger.Error("failed to mark unqueued job as failed",
				"job_id", job.ID, "error", failErr)
		}
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.logger.Info("ingestion job submitted", "job_id", job.ID, "url", job.SourceURL)
	return job, nil
}

// Status returns the job's current state plus how many chunks it has
// contributed to the index.
func (s *ingestionService) Status(ctx context.Context, jobID string) (*driving.JobStatusInfo, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	count, err := s.index.CountByJob(ctx, jobID)
	if err != nil {
		s.logger.Warn("failed to count job chunks", "job_id", jobID, "error", err)
		count = 0
	}

	return &driving.JobStatusInfo{
		Job:        job,
		ChunkCount: count,
	}, nil
}

// validateURL accepts absolute http(s) URLs only
func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("url is required: %w", domain.ErrInvalidInput)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed url: %w", domain.ErrInvalidInput)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https: %w", domain.ErrInvalidInput)
	}
	if u.Host == "" {
		return fmt.Errorf("url host is required: %w", domain.ErrInvalidInput)
	}
	return nil
}
