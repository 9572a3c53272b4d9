package driving

import (
	"context"
	"time"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// DocumentService manages ingested documents.
type DocumentService interface {
	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the canonical table text of a document.
	GetContent(ctx context.Context, documentID string) (string, error)

	// GetDetails returns display-ready metadata for a document.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)

	// Delete removes a document and all its chunks.
	Delete(ctx context.Context, documentID string) error
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// Filename is the name the file was uploaded under.
	Filename string

	// FileSize is the raw upload size in bytes.
	FileSize int64

	// MIMEType is the declared content type.
	MIMEType string

	// RowCount is the number of data rows.
	RowCount int

	// Headers are the column names.
	Headers []string

	// ChunkCount is the number of stored chunks.
	ChunkCount int

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}
