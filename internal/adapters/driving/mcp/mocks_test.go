package mcp

import (
	"context"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driving"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer domain.Answer
	scope  domain.QueryScope
	err    error
}

func (m *mockAskService) Ask(
	_ context.Context,
	_ string,
	scope domain.QueryScope,
) (domain.Answer, error) {
	m.scope = scope
	return m.answer, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result domain.IngestResult
	raw    domain.RawUpload
}

func (m *mockIngestService) Ingest(_ context.Context, raw domain.RawUpload) domain.IngestResult {
	m.raw = raw
	return m.result
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	deleted   []string
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}
