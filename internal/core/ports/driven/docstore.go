package driven

import (
	"context"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks and answers similarity
// queries over stored embeddings. Backed by SQLite.
type DocumentStore interface {
	// SaveDocument stores a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document. The write is atomic
	// per document: either every chunk lands or none do.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if no such document exists.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and all its chunks.
	// Returns domain.ErrNotFound if no such document exists.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// SimilaritySearch returns up to k chunks most similar to the
	// query vector, ordered by descending similarity. Chunks scoring
	// below threshold are excluded. A non-empty scope restricts the
	// search to the named documents.
	SimilaritySearch(ctx context.Context, query []float32, k int, scope domain.QueryScope, threshold float64) ([]domain.ScoredChunk, error)

	// Stats summarises the documents a scope covers. Implementations
	// that cannot count chunks cheaply set ChunkTotal negative.
	Stats(ctx context.Context, scope domain.QueryScope) (domain.ScopeStats, error)
}
