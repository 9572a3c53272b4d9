package mcp

import (
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions about ingested data.
	Ask driving.AskService

	// Ingest turns files into stored, embedded documents.
	Ingest driving.IngestService

	// Document manages ingested documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	// Ingest and Document are optional; their tools report
	// unavailability per call.
	return nil
}
