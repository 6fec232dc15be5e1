package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates a disallowed job status transition
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyClaimed indicates the job is already processing or terminal,
	// so a redelivered task must be skipped
	ErrAlreadyClaimed = errors.New("job already claimed")

	// ErrFetchFailed indicates a network/HTTP failure or unsupported content
	ErrFetchFailed = errors.New("fetch failed")

	// ErrEmptyContent indicates nothing extractable was found at the URL
	ErrEmptyContent = errors.New("no extractable content")

	// ErrEmbeddingFailed indicates the embedding provider failed
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrModelMismatch indicates a similarity comparison across embeddings
	// produced by different models
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrIndexWrite indicates a storage failure writing chunks to the index
	ErrIndexWrite = errors.New("index write failed")

	// ErrGenerationFailed indicates the generation provider failed or
	// returned malformed output
	ErrGenerationFailed = errors.New("generation failed")
)
