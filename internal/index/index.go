// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds searchable name indexes from tabular dataset files.
// Implements: docs/ARCHITECTURE § Name Index.
package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/clinpgx-lookup/internal/normalize"
	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

// SchemaVersion marks the on-disk layout of serialized indexes. Cached
// entries built under a different version are rebuilt.
const SchemaVersion = 1

// ErrIDColumnMissing reports a source table whose header lacks the required
// identifier column. The build fails; no partial index is returned.
var ErrIDColumnMissing = errors.New("id column not found in header")

// NameIndex maps canonical names to entity identifiers for one dataset.
// Immutable after Build; safe for concurrent read-only use.
type NameIndex struct {
	// NameToIDs maps a canonical name to the sorted set of entity IDs known
	// under that name. Every key is non-empty; every slice is non-empty,
	// deduplicated, and sorted ascending.
	NameToIDs map[string][]string `json:"name_to_ids"`

	// Candidates holds every key of NameToIDs in ascending order, fixing the
	// scan and tie-break order for fuzzy matching.
	Candidates []string `json:"candidates"`

	// PrimaryNames maps an entity ID to the display name recorded for it:
	// the first non-empty primary-column value seen across the source rows.
	PrimaryNames map[string]string `json:"primary_names"`

	// Meta records build provenance.
	Meta types.IndexMetadata `json:"meta"`
}

// Build constructs a NameIndex from the TSV at path according to spec.
// Rows with an empty identifier and rows that fail to parse are skipped;
// a header without the identifier column fails with ErrIDColumnMissing.
func Build(ctx context.Context, path string, spec types.DatasetSpec) (*NameIndex, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", path, err)
	}

	table, err := openTSV(path)
	if err != nil {
		return nil, err
	}
	defer table.Close()

	idCol := table.Column(spec.IDColumn)
	if idCol < 0 {
		return nil, fmt.Errorf("%s: %w (want column %q)", path, ErrIDColumnMissing, spec.IDColumn)
	}
	primaryCols := table.ColumnList(spec.PrimaryColumns)
	listCols := table.ColumnList(spec.ListColumns)

	nameIDs := make(map[string]map[string]struct{})
	primary := make(map[string]string)
	rows := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := table.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rows++

		id := strings.TrimSpace(fieldAt(row, idCol))
		if id == "" {
			continue
		}

		// The row's display name is its first non-empty primary column;
		// the first row to supply one for an ID wins.
		for _, col := range primaryCols {
			v := strings.TrimSpace(fieldAt(row, col))
			if v == "" {
				continue
			}
			if _, ok := primary[id]; !ok {
				primary[id] = v
			}
			break
		}

		// Collect every name the row offers, deduplicated within the row by
		// canonical form. Cross-row repeats are harmless: the ID set absorbs them.
		seen := make(map[string]struct{})
		addName := func(raw string) {
			name := normalize.Name(raw)
			if name == "" {
				return
			}
			if _, dup := seen[name]; dup {
				return
			}
			seen[name] = struct{}{}
			ids, ok := nameIDs[name]
			if !ok {
				ids = make(map[string]struct{})
				nameIDs[name] = ids
			}
			ids[id] = struct{}{}
		}

		for _, col := range primaryCols {
			addName(fieldAt(row, col))
		}
		for _, col := range listCols {
			for _, piece := range normalize.SplitSynonyms(fieldAt(row, col)) {
				addName(piece)
			}
		}
	}

	ix := &NameIndex{
		NameToIDs:    make(map[string][]string, len(nameIDs)),
		Candidates:   make([]string, 0, len(nameIDs)),
		PrimaryNames: primary,
	}
	for name, ids := range nameIDs {
		list := make([]string, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		sort.Strings(list)
		ix.NameToIDs[name] = list
		ix.Candidates = append(ix.Candidates, name)
	}
	sort.Strings(ix.Candidates)

	ix.Meta = types.IndexMetadata{
		Source:        path,
		SourceModTime: info.ModTime().UTC(),
		Rows:          rows,
		Names:         len(ix.Candidates),
		BuiltAt:       time.Now().UTC(),
		BuildDuration: time.Since(start),
		SchemaVersion: SchemaVersion,
	}
	return ix, nil
}
