package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/weavelabs/ragcore/internal/core/domain"
	"github.com/weavelabs/ragcore/internal/core/ports/driven"
	"github.com/weavelabs/ragcore/internal/core/ports/driving"
)

// DefaultTopK is how many chunks ground an answer
const DefaultTopK = 5

// groundingPrompt binds the generation provider strictly to the
// retrieved context and forwards the original question.
const groundingPrompt = `You are a helpful AI assistant. Answer the user's question based ONLY on the context provided below.
If the answer is not in the context, say "I do not have enough information to answer that."

---
CONTEXT:
%s
---

QUESTION:
%s

ANSWER:
`

// Ensure answerService implements AnswerService
var _ driving.AnswerService = (*answerService)(nil)

// answerService implements the retrieval-augmented answering pipeline
type answerService struct {
	index     driven.VectorIndex
	embedder  driven.EmbeddingService
	generator driven.Generator
	topK      int
	logger    *slog.Logger
}

// NewAnswerService creates a new AnswerService. topK <= 0 selects
// DefaultTopK.
func NewAnswerService(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	generator driven.Generator,
	topK int,
	logger *slog.Logger,
) driving.AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &answerService{
		index:     index,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Answer runs embed -> retrieve -> ground -> generate. Retrieval coming
// back empty is not an error: the deterministic sentinel is returned and
// the generator is never called, so nothing can be hallucinated from an
// empty context.
func (s *answerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required: %w", domain.ErrInvalidInput)
	}

	start := time.Now()

	queryEmbedding, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}

	// The index rejects a model mismatch rather than silently comparing
	// incompatible vectors.
	scored, err := s.index.Query(ctx, queryEmbedding, s.embedder.Model(), s.topK)
	if err != nil {
		return nil, err
	}

	if len(scored) == 0 {
		s.logger.Info("no relevant chunks retrieved", "question_len", len(question))
		return &domain.Answer{
			Text:       domain.NoRelevantContent,
			SourceURLs: []string{},
			Grounded:   false,
		}, nil
	}

	contexts := make([]string, len(scored))
	for i, sc := range scored {
		contexts[i] = sc.Chunk.Text
	}
	prompt := fmt.Sprintf(groundingPrompt, strings.Join(contexts, "\n---\n"), question)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: provider returned empty response", domain.ErrGenerationFailed)
	}

	s.logger.Info("question answered",
		"chunks", len(scored),
		"duration", time.Since(start),
	)

	return &domain.Answer{
		Text:       text,
		SourceURLs: sourceURLs(scored),
		Grounded:   true,
	}, nil
}

// sourceURLs deduplicates chunk URLs preserving retrieval order
func sourceURLs(scored []domain.ScoredChunk) []string {
	seen := make(map[string]struct{}, len(scored))
	urls := make([]string, 0, len(scored))
	for _, sc := range scored {
		if _, ok := seen[sc.Chunk.SourceURL]; ok {
			continue
		}
		seen[sc.Chunk.SourceURL] = struct{}{}
		urls = append(urls, sc.Chunk.SourceURL)
	}
	return urls
}
