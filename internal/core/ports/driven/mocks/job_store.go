package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/weavelabs/ragcore/internal/core/domain"
)

// MockJobStore is an in-memory JobStore for testing
type MockJobStore struct {
	mu       sync.Mutex
	jobs     map[string]*domain.IngestionJob
	failNext error
}

// NewMockJobStore creates a new MockJobStore
func NewMockJobStore() *MockJobStore {
	return &MockJobStore{
		jobs: make(map[string]*domain.IngestionJob),
	}
}

func (m *MockJobStore) Create(ctx context.Context, job *domain.IngestionJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return err
	}

	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *MockJobStore) Get(ctx context.Context, id string) (*domain.IngestionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, err
	}

	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *MockJobStore) Claim(ctx context.Context, id string) (*domain.IngestionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, err
	}

	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if job.Status != domain.JobStatusPending {
		return nil, domain.ErrAlreadyClaimed
	}
	if err := job.MarkProcessing(); err != nil {
		return nil, err
	}
	cp := *job
	return &cp, nil
}

func (m *MockJobStore) MarkCompleted(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	return job.MarkCompleted()
}

func (m *MockJobStore) MarkFailed(ctx context.Context, id string, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	return job.MarkFailed(detail)
}

func (m *MockJobStore) List(ctx context.Context, limit, offset int) ([]*domain.IngestionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobs := make([]*domain.IngestionJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		cp := *job
		jobs = append(jobs, &cp)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if offset >= len(jobs) {
		return nil, nil
	}
	jobs = jobs[offset:]
	if limit > 0 && limit < len(jobs) {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// Helper methods for testing

// SetFailNext makes the next store call return err
func (m *MockJobStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Count returns the number of stored jobs
func (m *MockJobStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func (m *MockJobStore) takeFailure() error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	return nil
}
