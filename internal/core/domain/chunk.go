package domain

import (
	"math"
	"time"
)

// Chunk is a bounded text segment extracted from a scraped document,
// carrying exactly one embedding. The vector index owns chunk lifetime
// independently of job lifetime; JobID is a back-reference only.
type Chunk struct {
	// ID is the internal chunk identifier
	ID string `json:"id"`

	// JobID references the ingestion job that produced this chunk
	JobID string `json:"job_id"`

	// SourceURL is the URL the chunk's document was scraped from
	SourceURL string `json:"source_url"`

	// Position is the chunk's ordinal within its document
	Position int `json:"position"`

	// Text is the chunk content
	Text string `json:"text"`

	// Embedding is the fixed-dimension vector, produced once and never
	// recomputed in place
	Embedding []float32 `json:"embedding,omitempty"`

	// EmbeddingModel identifies the model that produced the embedding.
	// Mixing models within one knowledge base is disallowed.
	EmbeddingModel string `json:"embedding_model"`

	// CreatedAt is when the chunk was indexed
	CreatedAt time.Time `json:"created_at"`
}

// ScoredChunk pairs a retrieved chunk with its similarity score
type ScoredChunk struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
