package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string   `json:"question" jsonschema:"the natural-language question to answer from ingested CSV data"`
	Documents []string `json:"documents,omitempty" jsonschema:"optional document ids to restrict the question to"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string `json:"answer"`
	State     string `json:"state"`
	Retrieved int    `json:"retrieved"`
	K         int    `json:"k"`
}

// IngestFileInput is the input schema for the ingest_file tool.
type IngestFileInput struct {
	Path string `json:"path" jsonschema:"path to a local CSV or TSV file to ingest"`
}

// IngestFileOutput is the output schema for the ingest_file tool.
type IngestFileOutput struct {
	Success      bool   `json:"success"`
	DocumentID   string `json:"document_id,omitempty"`
	RowCount     int    `json:"row_count"`
	ChunksStored int    `json:"chunks_stored"`
	Error        string `json:"error,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// DocumentInfo summarises one ingested document.
type DocumentInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	RowCount int    `json:"row_count"`
}

// DeleteDocumentInput is the input schema for the delete_document tool.
type DeleteDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to delete"`
}

// DeleteDocumentOutput is the output schema for the delete_document tool.
type DeleteDocumentOutput struct {
	Deleted    bool   `json:"deleted"`
	DocumentID string `json:"document_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about ingested CSV data",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_file",
		Description: "Ingest a local CSV or TSV file so it can be queried",
	}, s.handleIngestFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete an ingested document and its chunks",
	}, s.handleDeleteDocument)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	scope := domain.QueryScope{DocumentIDs: input.Documents}

	answer, err := s.ports.Ask.Ask(ctx, input.Question, scope)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		State:     string(answer.State),
		Retrieved: answer.Retrieved,
		K:         answer.K,
	}

	return nil, output, nil
}

// handleIngestFile handles the ingest_file tool invocation.
// Failures inside the pipeline are reported in the output rather than
// as a tool error so assistants can relay them verbatim.
func (s *Server) handleIngestFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestFileInput,
) (*mcp.CallToolResult, IngestFileOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestFileOutput{}, errors.New("ingest service not available")
	}

	content, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, IngestFileOutput{Error: err.Error()}, nil
	}

	raw := domain.RawUpload{
		Filename: filepath.Base(input.Path),
		Size:     int64(len(content)),
		MIMEType: mimeTypeFor(input.Path),
		Content:  content,
	}

	result := s.ports.Ingest.Ingest(ctx, raw)

	output := IngestFileOutput{
		Success:      result.Success,
		DocumentID:   result.DocumentID,
		RowCount:     result.RowCount,
		ChunksStored: result.ChunksStored,
	}
	if result.Err != nil {
		output.Error = result.Err.Error()
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, errors.New("document service not available")
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentInfo, len(docs)),
		Count:     len(docs),
	}

	for i := range docs {
		output.Documents[i] = DocumentInfo{
			ID:       docs[i].ID,
			Filename: docs[i].Filename,
			RowCount: docs[i].Meta.RowCount,
		}
	}

	return nil, output, nil
}

// handleDeleteDocument handles the delete_document tool invocation.
func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteDocumentInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, DeleteDocumentOutput{}, errors.New("document service not available")
	}

	if err := s.ports.Document.Delete(ctx, input.DocumentID); err != nil {
		return nil, DeleteDocumentOutput{}, err
	}

	return nil, DeleteDocumentOutput{Deleted: true, DocumentID: input.DocumentID}, nil
}

// mimeTypeFor maps a file extension to the declared content type.
func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv":
		return "text/tab-separated-values"
	case ".txt":
		return "text/plain"
	default:
		return "text/csv"
	}
}
