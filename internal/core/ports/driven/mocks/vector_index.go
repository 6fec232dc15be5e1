package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/weavelabs/ragcore/internal/core/domain"
)

// MockVectorIndex is an in-memory VectorIndex for testing.
// It mirrors the contract of the Postgres adapter: atomic batch insert,
// cosine ranking, insertion-order tie-breaking, model mismatch detection.
type MockVectorIndex struct {
	mu       sync.Mutex
	chunks   []*domain.Chunk
	failNext error
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{}
}

func (m *MockVectorIndex) Insert(ctx context.Context, chunks []*domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}

	for _, chunk := range chunks {
		cp := *chunk
		m.chunks = append(m.chunks, &cp)
	}
	return nil
}

func (m *MockVectorIndex) Query(ctx context.Context, embedding []float32, model string, k int) ([]domain.ScoredChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}

	var scored []domain.ScoredChunk
	for _, chunk := range m.chunks {
		if chunk.EmbeddingModel != model {
			return nil, domain.ErrModelMismatch
		}
		cp := *chunk
		scored = append(scored, domain.ScoredChunk{
			Chunk: &cp,
			Score: domain.CosineSimilarity(embedding, chunk.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (m *MockVectorIndex) CountByJob(ctx context.Context, jobID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, chunk := range m.chunks {
		if chunk.JobID == jobID {
			count++
		}
	}
	return count, nil
}

// Helper methods for testing

// SetFailNext makes the next index call return err
func (m *MockVectorIndex) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Len returns the total number of stored chunks
func (m *MockVectorIndex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks)
}

// Chunks returns a copy of all stored chunks in insertion order
func (m *MockVectorIndex) Chunks() []*domain.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Chunk, len(m.chunks))
	for i, chunk := range m.chunks {
		cp := *chunk
		out[i] = &cp
	}
	return out
}
