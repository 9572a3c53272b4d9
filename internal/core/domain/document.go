package domain

import "time"

// Document represents an ingested CSV file with metadata.
// It is the canonical representation after parsing: Content holds the
// reconstructed table text, Meta the parsed shape of the data.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the name the file was uploaded under.
	Filename string

	// FileSize is the size of the raw upload in bytes.
	FileSize int64

	// MIMEType is the declared content type (usually text/csv).
	MIMEType string

	// Content is the canonical table text: the header line followed
	// by one line per row. This is the complete document text before
	// chunking.
	Content string

	// Meta describes the parsed table.
	Meta DocumentMeta

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

// DocumentMeta is the closed metadata schema for a document.
// Every field is known at parse time; Extra is reserved for
// adapter-specific annotations and is normally nil.
type DocumentMeta struct {
	// RowCount is the number of data rows (excluding the header).
	RowCount int

	// Headers are the column names in file order.
	Headers []string

	// Delimiter is the field separator the parser detected.
	Delimiter string

	// Extra carries adapter-specific annotations.
	Extra map[string]any
}

// Chunk represents a retrievable unit within a document.
// Documents are split into chunks so retrieval can return a bounded
// amount of context per question.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Index is the ordinal position within the document.
	// Indices are dense and zero-based: a document with N chunks
	// has exactly the indices 0..N-1.
	Index int

	// Embedding is the vector representation for similarity search.
	// All chunks of a store share one dimensionality, fixed by the
	// embedding model.
	Embedding []float32

	// Meta describes where the chunk came from.
	Meta ChunkMeta

	// CreatedAt is when the chunk was stored.
	CreatedAt time.Time
}

// ChunkMeta is the closed metadata schema for a chunk.
type ChunkMeta struct {
	// DocumentID duplicates the parent document id so a chunk's
	// provenance survives serialisation on its own.
	DocumentID string

	// ChunkIndex duplicates Chunk.Index for the same reason.
	ChunkIndex int

	// UnitType records how the chunk was cut: "row" for one chunk
	// per data row, "window" for character windows over the
	// flattened table.
	UnitType string

	// SourceRow is the 1-based row number for row units, 0 for
	// windows.
	SourceRow int

	// Headers are the column names of the parent table.
	Headers []string

	// Extra carries adapter-specific annotations.
	Extra map[string]any
}

// Chunk unit types.
const (
	// UnitRow marks a chunk holding exactly one flattened data row.
	UnitRow = "row"

	// UnitWindow marks a chunk cut as a character window over the
	// flattened table text.
	UnitWindow = "window"
)
