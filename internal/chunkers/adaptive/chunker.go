// Package adaptive sizes chunks from a table's row count.
//
// Small tables keep one chunk per row so every record stays intact.
// Larger tables switch to character windows over the flattened row
// text, with window width and overlap shrinking as tables grow.
package adaptive

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driven"
)

// Row-count boundaries between chunking tiers.
const (
	// PerRowLimit is the largest table that gets one chunk per row.
	PerRowLimit = 10

	// SmallTableLimit is the largest table chunked with wide windows.
	SmallTableLimit = 50

	// LargeTableLimit is the largest table chunked with medium windows.
	// Beyond it, tables get narrow windows.
	LargeTableLimit = 500
)

// Tier describes how tables of a given row count are chunked.
type Tier struct {
	// PerRow means one chunk per data row, no splitting.
	PerRow bool

	// Size is the window width in characters. Zero for per-row.
	Size int

	// Overlap is the number of characters adjacent windows share.
	Overlap int
}

// TierFor returns the chunking tier for a table of rows data rows.
// The mapping is a pure function of the row count:
//
//	rows <= 10          one chunk per row
//	10 < rows <= 50     2000-char windows, 100 overlap
//	50 < rows <= 500    1500-char windows, 75 overlap
//	rows > 500          800-char windows, 40 overlap
func TierFor(rows int) Tier {
	switch {
	case rows <= PerRowLimit:
		return Tier{PerRow: true}
	case rows <= SmallTableLimit:
		return Tier{Size: 2000, Overlap: 100}
	case rows <= LargeTableLimit:
		return Tier{Size: 1500, Overlap: 75}
	default:
		return Tier{Size: 800, Overlap: 40}
	}
}

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Chunker splits parsed tables into chunks using the adaptive tiers.
type Chunker struct{}

// New creates a new adaptive chunker.
func New() *Chunker {
	return &Chunker{}
}

// Chunk produces the chunks for a document from its parsed rows.
// Indices are dense and zero-based in every tier. A table with no data
// rows produces no chunks.
func (c *Chunker) Chunk(_ context.Context, doc *domain.Document, rows []domain.RowRecord) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := doc.Meta.Headers
	tier := TierFor(len(rows))

	if tier.PerRow {
		chunks := make([]domain.Chunk, 0, len(rows))
		for _, row := range rows {
			chunks = append(chunks, newChunk(doc, row.Flatten(headers), len(chunks), domain.UnitRow, row.Number))
		}
		return chunks, nil
	}

	flattened := make([]string, len(rows))
	for i, row := range rows {
		flattened[i] = row.Flatten(headers)
	}
	text := strings.Join(flattened, "\n")

	windows := splitWindows(text, tier.Size, tier.Overlap)
	chunks := make([]domain.Chunk, 0, len(windows))
	for _, w := range windows {
		content := strings.TrimRight(w, "\n")
		if content == "" {
			continue
		}
		chunks = append(chunks, newChunk(doc, content, len(chunks), domain.UnitWindow, 0))
	}
	return chunks, nil
}

// newChunk stamps identity and provenance onto one chunk.
func newChunk(doc *domain.Document, content string, index int, unitType string, sourceRow int) domain.Chunk {
	return domain.Chunk{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Content:    content,
		Index:      index,
		Meta: domain.ChunkMeta{
			DocumentID: doc.ID,
			ChunkIndex: index,
			UnitType:   unitType,
			SourceRow:  sourceRow,
			Headers:    doc.Meta.Headers,
		},
	}
}

// splitWindows cuts text into windows of at most size characters where
// adjacent windows share overlap characters. Cuts prefer a row
// boundary in the back half of the window, then a field separator,
// then a hard cut.
func splitWindows(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	var windows []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			windows = append(windows, text[start:])
			break
		}

		cut := boundaryCut(text, start, end)
		windows = append(windows, text[start:cut])

		next := cut - overlap
		if next <= start {
			// Tiny soft cut; advancing past it beats looping.
			next = cut
		}
		start = next
	}
	return windows
}

// boundaryCut picks where a window ends: after the last row boundary
// in its back half, else after the last ", " field separator, else at
// the hard limit.
func boundaryCut(text string, start, end int) int {
	minCut := start + (end-start)/2

	if i := strings.LastIndexByte(text[minCut:end], '\n'); i >= 0 {
		return minCut + i + 1
	}
	if i := strings.LastIndex(text[minCut:end], ", "); i >= 0 {
		return minCut + i + 2
	}
	return end
}
