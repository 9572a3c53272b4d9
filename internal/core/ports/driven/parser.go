package driven

import (
	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// TableParser reads raw delimited text into header-keyed rows.
// The first input line is always the header row.
type TableParser interface {
	// SupportedMIMETypes returns the MIME types this parser handles.
	SupportedMIMETypes() []string

	// Parse reads raw bytes into a table. Malformed input returns an
	// error wrapping domain.ErrParse.
	Parse(raw []byte) (*ParseResult, error)
}

// ParseResult contains the output of parsing one upload.
type ParseResult struct {
	// Headers are the column names in file order.
	Headers []string

	// Rows are the data rows, in file order, numbered from 1.
	Rows []domain.RowRecord

	// Delimiter is the field separator the parser detected.
	Delimiter string

	// Canonical is the reconstructed table text: the header line
	// followed by one line per row. This becomes Document.Content.
	Canonical string
}
