package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven"
)

// Ensure Embedder implements EmbeddingService
var _ driven.EmbeddingService = (*Embedder)(nil)

// Embedder implements EmbeddingService against an OpenAI-compatible
// embeddings endpoint. Ollama, LM Studio and most hosted providers
// expose this API shape, so one adapter covers them via BaseURL.
type Embedder struct {
	apiKey     string
	model      string
	baseURL    string
	dimensions int
	client     *http.Client
}

// EmbedderConfig configures the embedding adapter
type EmbedderConfig struct {
	// APIKey authenticates against the provider. May be empty for
	// local OpenAI-compatible servers.
	APIKey string

	// Model is the embedding model identifier. Chunks are tagged with
	// it, and queries against chunks from another model are rejected.
	Model string

	// BaseURL points at the provider (default https://api.openai.com/v1)
	BaseURL string

	// Timeout for embedding requests
	Timeout time.Duration
}

// Known embedding model dimensions
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"all-MiniLM-L6-v2":       384,
}

// NewEmbedder creates an embedding service
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	dimensions, ok := modelDimensions[cfg.Model]
	if !ok {
		dimensions = 1536
	}

	return &Embedder{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		dimensions: dimensions,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type embeddingRequest struct {
	Input          []string `json:"input"`
	Model          string   `json:"model"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
}

type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
	Error  *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

type embeddingData struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// Embed generates embeddings for multiple texts in one request.
// The result preserves input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.doRequest(ctx, embeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: "float",
	})
	if err != nil {
		return nil, err
	}

	// The provider reports an index per vector; sort back to input order
	embeddings := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < len(embeddings) {
			embeddings[d.Index] = d.Embedding
		}
	}

	for i, emb := range embeddings {
		if emb == nil {
			return nil, fmt.Errorf("%w: no embedding returned for input %d", domain.ErrEmbeddingFailed, i)
		}
	}

	return embeddings, nil
}

// EmbedQuery generates an embedding for a search query
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for query", domain.ErrEmbeddingFailed)
	}
	return embeddings[0], nil
}

// Dimensions returns the embedding dimension size
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Model returns the model identifier used to tag chunks
func (e *Embedder) Model() string {
	return e.model
}

// HealthCheck verifies the provider is reachable
func (e *Embedder) HealthCheck(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "health check")
	return err
}

// Close releases resources held by the embedding service
func (e *Embedder) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

func (e *Embedder) doRequest(ctx context.Context, reqBody embeddingRequest) (*embeddingResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if embResp.Error != nil {
		return nil, fmt.Errorf("embedding API error: %s (type: %s, code: %s)",
			embResp.Error.Message, embResp.Error.Type, embResp.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned status %d", resp.StatusCode)
	}

	return &embResp, nil
}
