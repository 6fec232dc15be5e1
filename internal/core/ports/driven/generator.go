package driven

import (
	"context"
)

// Generator produces a grounded answer from a prompt that binds the
// model strictly to retrieved context text.
type Generator interface {
	// Generate returns the model's response verbatim
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the generation provider is available
	Ping(ctx context.Context) error

	// Close releases resources held by the generator
	Close() error
}
