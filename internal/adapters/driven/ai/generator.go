package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/weavelabs/ragcore/internal/core/ports/driven"
)

// Ensure Generator implements the generation port
var _ driven.Generator = (*Generator)(nil)

// Generator produces grounded answers through an OpenAI-compatible chat
// completions endpoint.
type Generator struct {
	client *openai.Client
	model  string
}

// GeneratorConfig configures the generation adapter
type GeneratorConfig struct {
	// APIKey authenticates against the provider
	APIKey string

	// Model is the chat model used for answer generation
	Model string

	// BaseURL points at the provider (default https://api.openai.com/v1)
	BaseURL string
}

// NewGenerator creates a generation service
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Generate runs one chat completion over the fully assembled prompt.
// Prompt construction stays in the service layer; this adapter only
// moves text across the wire.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Model returns the chat model identifier
func (g *Generator) Model() string {
	return g.model
}

// Ping verifies the provider is reachable
func (g *Generator) Ping(ctx context.Context) error {
	_, err := g.client.ListModels(ctx)
	return err
}

// Close releases resources held by the generator
func (g *Generator) Close() error {
	return nil
}
