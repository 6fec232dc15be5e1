package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/weavelabs/ragcore/internal/chunker"
	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven/mocks"
)

type pipelineFixture struct {
	jobs     *mocks.MockJobStore
	index    *mocks.MockVectorIndex
	embedder *mocks.MockEmbeddingService
	fetcher  *mocks.MockPageFetcher
	pipeline *IngestionPipeline
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		jobs:     mocks.NewMockJobStore(),
		index:    mocks.NewMockVectorIndex(),
		embedder: mocks.NewMockEmbeddingService(),
		fetcher:  mocks.NewMockPageFetcher(),
	}
	f.pipeline = NewIngestionPipeline(IngestionPipelineConfig{
		Jobs:     f.jobs,
		Index:    f.index,
		Embedder: f.embedder,
		Fetcher:  f.fetcher,
		ChunkCfg: chunker.Config{Size: 50, Overlap: 10},
	})
	return f
}

func (f *pipelineFixture) submitJob(t *testing.T, url string) *domain.IngestionJob {
	t.Helper()
	job := domain.NewIngestionJob(url)
	if err := f.jobs.Create(context.Background(), job); err != nil {
		t.Fatalf("failed to create job: %v", err)
	}
	return job
}

func TestPipeline_Success(t *testing.T) {
	f := newPipelineFixture()
	f.fetcher.SetPage("https://example.com/a", strings.Repeat("Relevant article content. ", 20))
	job := f.submitJob(t, "https://example.com/a")

	if err := f.pipeline.Process(context.Background(), job.ID, job.SourceURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := f.jobs.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != domain.JobStatusCompleted {
		t.Errorf("expected COMPLETED, got %s (detail: %s)", stored.Status, stored.ErrorDetail)
	}

	// The index gains at least one chunk tagged with the job id.
	count, _ := f.index.CountByJob(context.Background(), job.ID)
	if count == 0 {
		t.Fatal("expected chunks tagged with the job id")
	}

	for i, chunk := range f.index.Chunks() {
		if chunk.JobID != job.ID {
			t.Errorf("chunk %d: expected job id %s, got %s", i, job.ID, chunk.JobID)
		}
		if chunk.SourceURL != "https://example.com/a" {
			t.Errorf("chunk %d: expected source url to be recorded", i)
		}
		if chunk.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, chunk.Position)
		}
		if len(chunk.Embedding) != f.embedder.Dimensions() {
			t.Errorf("chunk %d: expected %d-dim embedding", i, f.embedder.Dimensions())
		}
		if chunk.EmbeddingModel != f.embedder.Model() {
			t.Errorf("chunk %d: expected embedding model tag", i)
		}
	}
}

func TestPipeline_FetchFailure(t *testing.T) {
	f := newPipelineFixture()
	f.fetcher.SetError("https://example.com/missing",
		fmt.Errorf("GET https://example.com/missing: status 404: %w", domain.ErrFetchFailed))
	job := f.submitJob(t, "https://example.com/missing")

	// Job-level failures are recorded, not returned.
	if err := f.pipeline.Process(context.Background(), job.ID, job.SourceURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := f.jobs.Get(context.Background(), job.ID)
	if stored.Status != domain.JobStatusFailed {
		t.Fatalf("expected FAILED, got %s", stored.Status)
	}
	if stored.ErrorDetail == "" {
		t.Error("expected non-empty error detail")
	}
	if !strings.Contains(stored.ErrorDetail, "404") {
		t.Errorf("expected error detail to describe the cause, got %q", stored.ErrorDetail)
	}
	if f.index.Len() != 0 {
		t.Errorf("expected zero chunks after failed fetch, got %d", f.index.Len())
	}
}

func TestPipeline_EmptyContent(t *testing.T) {
	f := newPipelineFixture()
	f.fetcher.SetPage("https://example.com/empty", "   \n\t  ")
	job := f.submitJob(t, "https://example.com/empty")

	if err := f.pipeline.Process(context.Background(), job.ID, job.SourceURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := f.jobs.Get(context.Background(), job.ID)
	if stored.Status != domain.JobStatusFailed {
		t.Fatalf("expected FAILED for empty content, got %s", stored.Status)
	}
	if !strings.Contains(stored.ErrorDetail, "no extractable content") {
		t.Errorf("expected empty-content detail, got %q", stored.ErrorDetail)
	}
	if f.index.Len() != 0 {
		t.Errorf("expected zero chunks, got %d", f.index.Len())
	}
}

func TestPipeline_EmbeddingFailure_NoPartialWrites(t *testing.T) {
	f := newPipelineFixture()
	f.fetcher.SetPage("https://example.com/a", strings.Repeat("Text to embed. ", 30))
	f.embedder.SetFailNext(errors.New("provider quota exceeded"))
	job := f.submitJob(t, "https://example.com/a")

	if err := f.pipeline.Process(context.Background(), job.ID, job.SourceURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := f.jobs.Get(context.Background(), job.ID)
	if stored.Status != domain.JobStatusFailed {
		t.Fatalf("expected FAILED, got %s", stored.Status)
	}
	if !strings.Contains(stored.ErrorDetail, "embedding failed") {
		t.Errorf("expected embedding failure detail, got %q", stored.ErrorDetail)
	}
	// No partial-chunk success state exists.
	if f.index.Len() != 0 {
		t.Errorf("expected zero chunks after embedding failure, got %d", f.index.Len())
	}
}

func TestPipeline_IndexWriteFailure(t *testing.T) {
	f := newPipelineFixture()
	f.fetcher.SetPage("https://example.com/a", "Some indexable content for the pipeline.")
	f.index.SetFailNext(errors.New("disk full"))
	job := f.submitJob(t, "https://example.com/a")

	if err := f.pipeline.Process(context.Background(), job.ID, job.SourceURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := f.jobs.Get(context.Background(), job.ID)
	if stored.Status != domain.JobStatusFailed {
		t.Fatalf("expected FAILED, got %s", stored.Status)
	}
	if !strings.Contains(stored.ErrorDetail, "index write failed") {
		t.Errorf("expected index write detail, got %q", stored.ErrorDetail)
	}
}

func TestPipeline_RedeliveryAfterTerminal_NoOp(t *testing.T) {
	f := newPipelineFixture()
	f.fetcher.SetPage("https://example.com/a", strings.Repeat("Stable content. ", 20))
	job := f.submitJob(t, "https://example.com/a")

	if err := f.pipeline.Process(context.Background(), job.ID, job.SourceURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	countAfterFirst := f.index.Len()
	stored, _ := f.jobs.Get(context.Background(), job.ID)
	statusAfterFirst := stored.Status

	// Redeliver the same (job_id, url).
	if err := f.pipeline.Process(context.Background(), job.ID, job.SourceURL); err != nil {
		t.Fatalf("unexpected error on redelivery: %v", err)
	}

	if f.index.Len() != countAfterFirst {
		t.Errorf("redelivery inserted duplicate chunks: %d -> %d", countAfterFirst, f.index.Len())
	}
	stored, _ = f.jobs.Get(context.Background(), job.ID)
	if stored.Status != statusAfterFirst {
		t.Errorf("redelivery changed status: %s -> %s", statusAfterFirst, stored.Status)
	}
}

func TestPipeline_UnknownJob_NoOp(t *testing.T) {
	f := newPipelineFixture()

	if err := f.pipeline.Process(context.Background(), "ghost-job", "https://example.com"); err != nil {
		t.Fatalf("expected unknown job to be skipped, got %v", err)
	}
	if f.index.Len() != 0 {
		t.Error("expected no chunks for unknown job")
	}
}

func TestPipeline_DuplicateURL_IndependentJobs(t *testing.T) {
	f := newPipelineFixture()
	f.fetcher.SetPage("https://example.com/dup", strings.Repeat("Same page twice. ", 20))

	jobA := f.submitJob(t, "https://example.com/dup")
	jobB := f.submitJob(t, "https://example.com/dup")

	if err := f.pipeline.Process(context.Background(), jobA.ID, jobA.SourceURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.pipeline.Process(context.Background(), jobB.ID, jobB.SourceURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, job := range []*domain.IngestionJob{jobA, jobB} {
		stored, _ := f.jobs.Get(context.Background(), job.ID)
		if stored.Status != domain.JobStatusCompleted {
			t.Errorf("job %s: expected COMPLETED, got %s", job.ID, stored.Status)
		}
	}

	countA, _ := f.index.CountByJob(context.Background(), jobA.ID)
	countB, _ := f.index.CountByJob(context.Background(), jobB.ID)
	if countA == 0 || countA != countB {
		t.Errorf("expected equal non-zero chunk sets per job, got %d and %d", countA, countB)
	}
}

func TestPipeline_ConcurrentJobs(t *testing.T) {
	f := newPipelineFixture()

	const n = 8
	jobs := make([]*domain.IngestionJob, n)
	for i := range jobs {
		url := fmt.Sprintf("https://example.com/page-%d", i)
		f.fetcher.SetPage(url, strings.Repeat(fmt.Sprintf("Page %d content. ", i), 20))
		jobs[i] = f.submitJob(t, url)
	}

	done := make(chan error, n)
	for _, job := range jobs {
		go func(job *domain.IngestionJob) {
			done <- f.pipeline.Process(context.Background(), job.ID, job.SourceURL)
		}(job)
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for _, job := range jobs {
		stored, _ := f.jobs.Get(context.Background(), job.ID)
		if stored.Status != domain.JobStatusCompleted {
			t.Errorf("job %s: expected COMPLETED, got %s", job.ID, stored.Status)
		}
		count, _ := f.index.CountByJob(context.Background(), job.ID)
		if count == 0 {
			t.Errorf("job %s: expected chunks in index", job.ID)
		}
	}
}
