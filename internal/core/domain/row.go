package domain

import "strings"

// MissingValue is the placeholder rendered for absent or empty fields
// when a row is flattened for embedding.
const MissingValue = "N/A"

// RowRecord is one parsed data row, keyed by column header.
// Rows are transient: they exist between parsing and chunking and are
// never persisted themselves.
type RowRecord struct {
	// Number is the 1-based position of the row in the file,
	// counting data rows only (the header is row 0 conceptually
	// and never becomes a record).
	Number int

	// Fields maps column header to the raw cell value.
	Fields map[string]string
}

// Flatten renders the row as "{header}: {value}" pairs in the given
// header order, joined with ", ". Absent or empty cells render as
// MissingValue so every row mentions every column.
func (r RowRecord) Flatten(headers []string) string {
	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(h)
		b.WriteString(": ")
		v := r.Fields[h]
		if v == "" {
			v = MissingValue
		}
		b.WriteString(v)
	}
	return b.String()
}
