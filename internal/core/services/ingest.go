package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driven"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driving"
	"github.com/tabulae-labs/askcsv-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: parse, chunk, embed,
// persist. One call handles one upload; concurrent calls are
// independent and share only the document store.
type IngestService struct {
	parser   driven.TableParser
	chunker  driven.Chunker
	embedder driven.EmbeddingService
	docStore driven.DocumentStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	parser driven.TableParser,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	docStore driven.DocumentStore,
) *IngestService {
	return &IngestService{
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		docStore: docStore,
	}
}

// Ingest processes one raw upload end to end. Every pipeline failure
// is caught here and reported inside the result; callers never see a
// raw error.
func (s *IngestService) Ingest(ctx context.Context, raw domain.RawUpload) domain.IngestResult {
	logger.Section("Ingestion")
	logger.Info("Ingesting %s (%d bytes)", raw.Filename, len(raw.Content))

	// 1. Parse the raw bytes into a table
	parsed, err := s.parser.Parse(raw.Content)
	if err != nil {
		logger.Warn("Parse failed for %s: %v", raw.Filename, err)
		return domain.IngestResult{Err: fmt.Errorf("parse %s: %w", raw.Filename, err)}
	}
	rowCount := len(parsed.Rows)
	logger.Debug("Parsed %s: %d columns, %d rows, delimiter %q",
		raw.Filename, len(parsed.Headers), rowCount, parsed.Delimiter)

	// 2. Build the document record
	size := raw.Size
	if size == 0 {
		size = int64(len(raw.Content))
	}
	mimeType := raw.MIMEType
	if mimeType == "" {
		mimeType = "text/csv"
	}
	doc := &domain.Document{
		ID:       uuid.New().String(),
		Filename: raw.Filename,
		FileSize: size,
		MIMEType: mimeType,
		Content:  parsed.Canonical,
		Meta: domain.DocumentMeta{
			RowCount:  rowCount,
			Headers:   parsed.Headers,
			Delimiter: parsed.Delimiter,
		},
		UploadedAt: time.Now().UTC(),
	}

	// 3. Chunk the rows
	chunks, err := s.chunker.Chunk(ctx, doc, parsed.Rows)
	if err != nil {
		logger.Warn("Chunking failed for %s: %v", raw.Filename, err)
		return domain.IngestResult{
			RowCount: rowCount,
			Err:      fmt.Errorf("chunk %s: %w", raw.Filename, err),
		}
	}
	logger.Debug("Chunked %s into %d chunks", raw.Filename, len(chunks))

	// 4. Embed all chunks in one batch. Nothing is persisted if the
	// batch fails, so a retry starts clean.
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = chunks[i].Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Embedding failed for %s: %v", raw.Filename, err)
			return domain.IngestResult{
				RowCount: rowCount,
				Err:      fmt.Errorf("%w: embed %d chunks: %w", domain.ErrEmbedding, len(chunks), err),
			}
		}
		if len(vectors) != len(chunks) {
			return domain.IngestResult{
				RowCount: rowCount,
				Err: fmt.Errorf("%w: got %d vectors for %d chunks",
					domain.ErrEmbedding, len(vectors), len(chunks)),
			}
		}
		for i := range chunks {
			chunks[i].Embedding = vectors[i]
		}
		logger.Debug("Embedded %d chunks (%d dimensions)", len(chunks), s.embedder.Dimensions())
	}

	// 5. Persist the document row
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Document save failed for %s: %v", raw.Filename, err)
		return domain.IngestResult{
			RowCount: rowCount,
			Err:      fmt.Errorf("%w: save document: %w", domain.ErrStorage, err),
		}
	}

	// 6. Persist the chunks. A failure here leaves an orphaned
	// document row; the id is reported so callers can delete it.
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		logger.Warn("Chunk save failed for %s (document %s orphaned): %v",
			raw.Filename, doc.ID, err)
		return domain.IngestResult{
			DocumentID: doc.ID,
			RowCount:   rowCount,
			Err:        fmt.Errorf("%w: save chunks: %w", domain.ErrStorage, err),
		}
	}

	logger.Info("Ingested %s: document %s, %d rows, %d chunks",
		raw.Filename, doc.ID, rowCount, len(chunks))

	return domain.IngestResult{
		Success:      true,
		DocumentID:   doc.ID,
		ChunksStored: len(chunks),
		RowCount:     rowCount,
	}
}
