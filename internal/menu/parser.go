package menu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Record is one feed row keyed by header name. Absent columns read as "".
type Record map[string]string

// Get returns the raw value of field, or "" when the row has no such column.
func (r Record) Get(field string) string {
	if r == nil {
		return ""
	}
	return r[field]
}

// RowError describes a feed row the parser could not read.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ParseError is returned alongside the records that could be read when one or
// more rows were malformed. An unterminated quote consumes the remainder of the
// feed and is reported as the last row error.
type ParseError struct {
	Rows []RowError
}

func (e *ParseError) Error() string {
	if e == nil || len(e.Rows) == 0 {
		return "menu: parse error"
	}
	if len(e.Rows) == 1 {
		return "menu: skipped malformed row at " + e.Rows[0].Error()
	}
	return fmt.Sprintf("menu: skipped %d malformed rows (first at %s)", len(e.Rows), e.Rows[0].Error())
}

// Unwrap exposes the individual row errors.
func (e *ParseError) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, len(e.Rows))
	for _, row := range e.Rows {
		out = append(out, row.Err)
	}
	return out
}

// Skipped returns the number of rows that were dropped.
func (e *ParseError) Skipped() int {
	if e == nil {
		return 0
	}
	return len(e.Rows)
}

type column struct {
	name  string
	index int
}

// Parse reads comma-separated text whose first row is the header.
//
// Field count policy: a row shorter than the header gets "" for the missing
// columns and cells beyond the header are ignored. Header names are trimmed and
// lower-cased; when a name repeats, the first column wins. Blank lines are
// skipped. Malformed rows are skipped and collected into a *ParseError that is
// returned together with every record that could be read.
func Parse(text string) ([]Record, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &ParseError{Rows: []RowError{rowError(err, 1)}}
	}
	columns := headerColumns(header)

	var (
		records []Record
		skipped []RowError
	)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				skipped = append(skipped, rowError(err, 0))
				break
			}
			skipped = append(skipped, rowError(err, 0))
			continue
		}
		records = append(records, buildRecord(columns, row))
	}

	if len(skipped) > 0 {
		return records, &ParseError{Rows: skipped}
	}
	return records, nil
}

func headerColumns(header []string) []column {
	seen := make(map[string]struct{}, len(header))
	columns := make([]column, 0, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		columns = append(columns, column{name: name, index: i})
	}
	return columns
}

func buildRecord(columns []column, row []string) Record {
	rec := make(Record, len(columns))
	for _, col := range columns {
		value := ""
		if col.index < len(row) {
			value = row[col.index]
		}
		rec[col.name] = value
	}
	return rec
}

func rowError(err error, fallbackLine int) RowError {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		line := pe.StartLine
		if line == 0 {
			line = pe.Line
		}
		return RowError{Line: line, Err: pe.Err}
	}
	return RowError{Line: fallbackLine, Err: err}
}
