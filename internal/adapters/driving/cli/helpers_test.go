package cli

import (
	"context"
	"time"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driving"
)

// Test doubles for the CLI commands. Commands read the package-level
// service variables, so tests swap in mocks and restore the previous
// wiring through the cleanup returned by setupTestServices.

type mockAskService struct {
	answer       domain.Answer
	err          error
	lastQuestion string
	lastScope    domain.QueryScope
}

func (m *mockAskService) Ask(_ context.Context, question string, scope domain.QueryScope) (domain.Answer, error) {
	m.lastQuestion = question
	m.lastScope = scope
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return m.answer, nil
}

type mockIngestService struct {
	// results maps filenames to outcomes; result is the fallback.
	results map[string]domain.IngestResult
	result  domain.IngestResult
	uploads []domain.RawUpload
}

func (m *mockIngestService) Ingest(_ context.Context, raw domain.RawUpload) domain.IngestResult {
	m.uploads = append(m.uploads, raw)
	if r, ok := m.results[raw.Filename]; ok {
		return r
	}
	return m.result
}

type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	deleted   []string
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.documents, nil
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.document, nil
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.details, nil
}

func (m *mockDocumentService) Delete(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	defaults    domain.AppSettings
	err         error
	validateErr error
	pingErr     error

	setThreshold float64
	setTimeout   int
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.err != nil {
		return m.err
	}
	m.settings = settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.err != nil {
		return m.err
	}
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.err != nil {
		return m.err
	}
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetSimilarityThreshold(threshold float64) error {
	if m.err != nil {
		return m.err
	}
	m.setThreshold = threshold
	return nil
}

func (m *mockSettingsService) SetRequestTimeout(seconds int) error {
	if m.err != nil {
		return m.err
	}
	m.setTimeout = seconds
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return m.defaults
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.pingErr
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.pingErr
}

// testDocument is the fixture the happy-path mocks serve.
func testDocument() domain.Document {
	return domain.Document{
		ID:       "doc-123",
		Filename: "sales.csv",
		FileSize: 2048,
		MIMEType: "text/csv",
		Content:  "region | total\nnorth | 1042\nsouth | 877",
		Meta: domain.DocumentMeta{
			RowCount:  40,
			Headers:   []string{"region", "total"},
			Delimiter: ",",
		},
		UploadedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// setupTestServices swaps in happy-path mocks for every service and
// returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldAsk := askService
	oldIngest := ingestService
	oldDocument := documentService
	oldSettings := settingsService
	oldWarnings := aiWarnings

	askService = &mockAskService{answer: domain.Answer{
		Text:      "The north region total is 1042.",
		State:     domain.StateAnswered,
		Retrieved: 3,
		K:         5,
	}}
	ingestService = &mockIngestService{result: domain.IngestResult{
		Success:      true,
		DocumentID:   "doc-123",
		RowCount:     40,
		ChunksStored: 4,
	}}

	doc := testDocument()
	documentService = &mockDocumentService{
		documents: []domain.Document{doc},
		document:  &doc,
		content:   doc.Content,
		details: &driving.DocumentDetails{
			ID:         doc.ID,
			Filename:   doc.Filename,
			FileSize:   doc.FileSize,
			MIMEType:   doc.MIMEType,
			RowCount:   doc.Meta.RowCount,
			Headers:    doc.Meta.Headers,
			ChunkCount: 4,
			UploadedAt: doc.UploadedAt,
		},
	}

	current := domain.DefaultAppSettings()
	settingsService = &mockSettingsService{
		settings: &current,
		defaults: domain.DefaultAppSettings(),
	}
	aiWarnings = nil

	return func() {
		askService = oldAsk
		ingestService = oldIngest
		documentService = oldDocument
		settingsService = oldSettings
		aiWarnings = oldWarnings
	}
}
