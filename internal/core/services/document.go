package services

import (
	"context"
	"fmt"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driven"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns all documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// GetContent returns the canonical table text of a document.
// The stored content is already the reconstructed table; window
// chunks overlap and cannot be concatenated back without duplication.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// GetDetails returns display-ready metadata for a document.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	// Chunk count is display-only; a read failure leaves it at zero.
	chunks, err := s.docStore.GetChunks(ctx, documentID)
	chunkCount := 0
	if err == nil {
		chunkCount = len(chunks)
	}

	return &driving.DocumentDetails{
		ID:         doc.ID,
		Filename:   doc.Filename,
		FileSize:   doc.FileSize,
		MIMEType:   doc.MIMEType,
		RowCount:   doc.Meta.RowCount,
		Headers:    doc.Meta.Headers,
		ChunkCount: chunkCount,
		UploadedAt: doc.UploadedAt,
	}, nil
}

// Delete removes a document and all its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}
