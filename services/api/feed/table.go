package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// Delimiter separates fields in the controller exports.
const Delimiter = ';'

// Table is a header plus the raw string rows of one feed.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Column returns the index of the named header column.
func (t Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// ReadTable reads a semicolon-delimited export with a header row. Records the
// CSV reader rejects are logged and skipped.
func ReadTable(name string, r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, fmt.Errorf("%s: empty file", name)
		}
		return Table{}, fmt.Errorf("%s: read header: %w", name, err)
	}

	t := Table{Name: name, Header: normalizeHeader(header)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				log.Printf("feed %s: skipping malformed line %d: %v", name, perr.Line, perr.Err)
				continue
			}
			return t, fmt.Errorf("%s: read rows: %w", name, err)
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
