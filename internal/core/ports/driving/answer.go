package driving

import (
	"context"

	"github.com/weavelabs/ragcore/internal/core/domain"
)

// AnswerService answers natural-language questions strictly from
// ingested content.
type AnswerService interface {
	// Answer embeds the question, retrieves the most similar chunks and
	// delegates to the generation provider with a grounding prompt.
	// When retrieval returns nothing, the answer is the deterministic
	// domain.NoRelevantContent sentinel and no provider call is made.
	// Provider failures surface as domain.ErrGenerationFailed.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}
