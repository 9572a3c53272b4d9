// Package mcp provides an MCP (Model Context Protocol) server adapter for askcsv.
// It lets AI assistants ask questions about ingested CSV data and manage documents.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
