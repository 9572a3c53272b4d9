package driving

import (
	"context"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// AskService answers natural-language questions about ingested data.
type AskService interface {
	// Ask runs the question pipeline: relevance gate, retrieval
	// planning, similarity search, answer synthesis. The returned
	// Answer carries the terminal pipeline state; errors are typed
	// with the domain sentinels (ErrScope, ErrModel, ErrTimeout).
	Ask(ctx context.Context, question string, scope domain.QueryScope) (domain.Answer, error)
}
