// Package tabular reads delimited text (CSV, TSV) into header-keyed rows.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.TableParser = (*Parser)(nil)

// utf8BOM is stripped from the start of uploads saved by spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser reads delimited tabular text. The first line is always the
// header row; the delimiter is sniffed from it.
type Parser struct{}

// New creates a new tabular parser.
func New() *Parser {
	return &Parser{}
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{
		"text/csv",
		"text/tab-separated-values",
		"text/plain",
		"application/csv",
	}
}

// Parse reads raw bytes into a table.
//
// Rows shorter than the header are padded with empty fields; cells
// beyond the header width are dropped. Fully empty lines are skipped.
// Malformed input (empty file, blank header, broken quoting) returns
// an error wrapping domain.ErrParse.
func (p *Parser) Parse(raw []byte) (*driven.ParseResult, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrParse)
	}

	delim := sniffDelimiter(raw)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows", domain.ErrParse)
	}

	headers := make([]string, len(records[0]))
	blank := true
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
		if headers[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil, fmt.Errorf("%w: blank header row", domain.ErrParse)
	}

	rows := make([]domain.RowRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		if emptyRecord(record) {
			continue
		}
		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				fields[h] = strings.TrimSpace(record[i])
			} else {
				fields[h] = ""
			}
		}
		rows = append(rows, domain.RowRecord{
			Number: len(rows) + 1,
			Fields: fields,
		})
	}

	canonical, err := rebuild(headers, rows, delim)
	if err != nil {
		return nil, fmt.Errorf("%w: rebuild canonical text: %v", domain.ErrParse, err)
	}

	return &driven.ParseResult{
		Headers:   headers,
		Rows:      rows,
		Delimiter: string(delim),
		Canonical: canonical,
	}, nil
}

// sniffDelimiter picks the separator from the header line. Comma wins
// ties; tab and semicolon are recognised for spreadsheet exports.
func sniffDelimiter(raw []byte) rune {
	header := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		header = raw[:i]
	}

	best, count := ',', bytes.Count(header, []byte{','})
	if c := bytes.Count(header, []byte{'\t'}); c > count {
		best, count = '\t', c
	}
	if c := bytes.Count(header, []byte{';'}); c > count {
		best = ';'
	}
	return best
}

// emptyRecord reports whether every cell of a record is blank.
func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rebuild writes the canonical table text: one header line and one
// line per row, quoted where values require it.
func rebuild(headers []string, rows []domain.RowRecord, delim rune) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = delim

	if err := writer.Write(headers); err != nil {
		return "", err
	}
	line := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			line[i] = row.Fields[h]
		}
		if err := writer.Write(line); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
