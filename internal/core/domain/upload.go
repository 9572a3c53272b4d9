package domain

// RawUpload represents opaque bytes handed to ingestion.
// It is the caller's input before parsing.
type RawUpload struct {
	// Filename is the name the file was uploaded under.
	Filename string

	// Size is the length of Content in bytes. Callers may leave it
	// zero; ingestion fills it from Content.
	Size int64

	// MIMEType is the declared content type (e.g., "text/csv").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// IngestResult is the structured outcome of an ingestion.
// Ingestion never returns a raw error: every pipeline failure is
// caught and reported here so callers can render it uniformly.
type IngestResult struct {
	// Success is true when the document and all its chunks were
	// stored.
	Success bool

	// DocumentID is the id of the stored document. Set on success,
	// and also when chunk storage failed after the document row was
	// written (the documented orphan case) so callers can clean up.
	DocumentID string

	// ChunksStored is the number of chunks persisted.
	ChunksStored int

	// RowCount is the number of data rows parsed.
	RowCount int

	// Err is the typed pipeline error when Success is false.
	// Classify it with errors.Is against the domain sentinels.
	Err error
}
