package services

import (
	"context"
	"errors"
	"testing"

	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven/mocks"
)

func TestIngestionService_Submit(t *testing.T) {
	jobs := mocks.NewMockJobStore()
	index := mocks.NewMockVectorIndex()
	queue := mocks.NewMockTaskQueue()
	svc := NewIngestionService(jobs, index, queue, nil)

	job, err := svc.Submit(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.ID == "" {
		t.Error("expected job ID to be assigned")
	}
	if job.Status != domain.JobStatusPending {
		t.Errorf("expected PENDING, got %s", job.Status)
	}

	// Exactly one unit of work per accepted URL.
	enqueued := queue.EnqueuedTasks()
	if len(enqueued) != 1 {
		t.Fatalf("expected exactly 1 enqueued task, got %d", len(enqueued))
	}
	if enqueued[0].JobID() != job.ID {
		t.Errorf("expected task job_id %s, got %s", job.ID, enqueued[0].JobID())
	}
	if enqueued[0].URL() != "https://example.com/a" {
		t.Errorf("expected task url to match, got %s", enqueued[0].URL())
	}
}

func TestIngestionService_Submit_InvalidURL(t *testing.T) {
	svc := NewIngestionService(mocks.NewMockJobStore(), mocks.NewMockVectorIndex(), mocks.NewMockTaskQueue(), nil)

	invalid := []string{
		"",
		"not a url at all",
		"ftp://example.com/file",
		"https://",
		"/relative/path",
	}

	for _, raw := range invalid {
		if _, err := svc.Submit(context.Background(), raw); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Submit(%q): expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestIngestionService_Submit_NoDedupByURL(t *testing.T) {
	jobs := mocks.NewMockJobStore()
	queue := mocks.NewMockTaskQueue()
	svc := NewIngestionService(jobs, mocks.NewMockVectorIndex(), queue, nil)

	a, err := svc.Submit(context.Background(), "https://example.com/same")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Submit(context.Background(), "https://example.com/same")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.ID == b.ID {
		t.Error("expected two independent jobs for the same URL")
	}
	if jobs.Count() != 2 {
		t.Errorf("expected 2 jobs, got %d", jobs.Count())
	}
	if len(queue.EnqueuedTasks()) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(queue.EnqueuedTasks()))
	}
}

func TestIngestionService_Submit_EnqueueFailure(t *testing.T) {
	jobs := mocks.NewMockJobStore()
	queue := mocks.NewMockTaskQueue()
	svc := NewIngestionService(jobs, mocks.NewMockVectorIndex(), queue, nil)

	queue.SetFailNext(errors.New("broker down"))

	job, err := svc.Submit(context.Background(), "https://example.com/a")
	if err == nil {
		t.Fatal("expected error when enqueue fails")
	}
	if job != nil {
		t.Error("expected nil job on enqueue failure")
	}

	// The orphaned job must not stay PENDING forever.
	stored, err := jobs.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored job, got %d", len(stored))
	}
	if stored[0].Status != domain.JobStatusFailed {
		t.Errorf("expected orphaned job FAILED, got %s", stored[0].Status)
	}
}

func TestIngestionService_Status(t *testing.T) {
	jobs := mocks.NewMockJobStore()
	index := mocks.NewMockVectorIndex()
	queue := mocks.NewMockTaskQueue()
	svc := NewIngestionService(jobs, index, queue, nil)

	job, err := svc.Submit(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = index.Insert(context.Background(), []*domain.Chunk{
		{ID: "c1", JobID: job.ID, Text: "one", EmbeddingModel: "m"},
		{ID: "c2", JobID: job.ID, Text: "two", EmbeddingModel: "m"},
		{ID: "c3", JobID: "other-job", Text: "three", EmbeddingModel: "m"},
	})

	info, err := svc.Status(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Job.ID != job.ID {
		t.Errorf("expected job %s, got %s", job.ID, info.Job.ID)
	}
	if info.ChunkCount != 2 {
		t.Errorf("expected chunk count 2, got %d", info.ChunkCount)
	}
}

func TestIngestionService_Status_NotFound(t *testing.T) {
	svc := NewIngestionService(mocks.NewMockJobStore(), mocks.NewMockVectorIndex(), mocks.NewMockTaskQueue(), nil)

	_, err := svc.Status(context.Background(), "no-such-job")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
