package driven

import (
	"context"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// Chunker splits a parsed table into retrievable chunks.
// Implementations choose chunk sizes from the table's row count; the
// produced chunks carry dense zero-based indices and embedding-ready
// content, but no embeddings.
type Chunker interface {
	// Chunk produces the chunks for a document from its parsed rows.
	// Every returned chunk has DocumentID, Index and Meta populated.
	Chunk(ctx context.Context, doc *domain.Document, rows []domain.RowRecord) ([]domain.Chunk, error)
}
