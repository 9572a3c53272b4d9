package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for askcsv resources.
	uriScheme = "askcsv://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all ingested documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for document content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Canonical table text of a specific document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)

	// Template for document details.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/details",
		Name:        "document-details",
		Description: "Metadata of a specific document",
		MIMEType:    "application/json",
	}, s.handleDocumentDetailsResource)
}

// handleDocumentsResource returns a list of all ingested documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	// Build simplified document list.
	type docInfo struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
		Rows     int    `json:"rows"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:       docs[i].ID,
			Filename: docs[i].Filename,
			Rows:     docs[i].Meta.RowCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource returns the table text of a specific document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: askcsv://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Document.GetContent(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document content: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		}},
	}, nil
}

// handleDocumentDetailsResource returns the metadata of a specific document.
func (s *Server) handleDocumentDetailsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: askcsv://documents/{documentId}/details
	docID := extractDetailsDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	details, err := s.ports.Document.GetDetails(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document details: %w", err)
	}

	// Build a JSON view of the details.
	type detailsInfo struct {
		ID         string    `json:"id"`
		Filename   string    `json:"filename"`
		FileSize   int64     `json:"file_size"`
		MIMEType   string    `json:"mime_type"`
		RowCount   int       `json:"row_count"`
		Headers    []string  `json:"headers"`
		ChunkCount int       `json:"chunk_count"`
		UploadedAt time.Time `json:"uploaded_at"`
	}

	info := detailsInfo{
		ID:         details.ID,
		Filename:   details.Filename,
		FileSize:   details.FileSize,
		MIMEType:   details.MIMEType,
		RowCount:   details.RowCount,
		Headers:    details.Headers,
		ChunkCount: details.ChunkCount,
		UploadedAt: details.UploadedAt,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling details: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like askcsv://documents/{documentId}.
// Nested paths (such as the details resource) do not match.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}

	return id
}

// extractDetailsDocumentID extracts the document ID from a URI like askcsv://documents/{documentId}/details.
func extractDetailsDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/details"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
