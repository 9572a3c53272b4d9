package driving

import (
	"context"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// IngestService turns raw uploads into stored, embedded documents.
type IngestService interface {
	// Ingest runs the full pipeline for one upload: parse, chunk,
	// embed, persist. It never returns a raw error; every failure is
	// reported inside the result so callers render it uniformly.
	Ingest(ctx context.Context, raw domain.RawUpload) domain.IngestResult
}
