// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// tsvTable reads a tab-separated file with a header row. Fields are
// positional per the header; rows may be ragged.
type tsvTable struct {
	f       *os.File
	r       *csv.Reader
	columns map[string]int
}

func openTSV(path string) (*tsvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return &tsvTable{f: f, r: r, columns: columns}, nil
}

// Column returns the position of the named column, or -1 when absent.
func (t *tsvTable) Column(name string) int {
	if idx, ok := t.columns[name]; ok {
		return idx
	}
	return -1
}

// ColumnList resolves names to positions, dropping absent columns while
// preserving the configured order of the rest.
func (t *tsvTable) ColumnList(names []string) []int {
	idxs := make([]int, 0, len(names))
	for _, n := range names {
		if idx := t.Column(n); idx >= 0 {
			idxs = append(idxs, idx)
		}
	}
	return idxs
}

// Next returns the next data row. Rows that fail to parse are skipped;
// io.EOF signals the end of the table.
func (t *tsvTable) Next() ([]string, error) {
	for {
		row, err := t.r.Read()
		if err == nil {
			return row, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		return nil, err
	}
}

func (t *tsvTable) Close() error {
	return t.f.Close()
}

// fieldAt returns row[idx], or "" when the row is too short or the column
// was absent from the header.
func fieldAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
