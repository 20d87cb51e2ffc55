// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes raw biomedical name strings for indexing
// and similarity scoring.
// Implements: docs/ARCHITECTURE § Normalization.
package normalize

import (
	"sort"
	"strings"
	"unicode"
)

// Name returns the canonical form of a raw name: trimmed, lowercased, curly
// quotes and long dashes folded to ASCII, registered/trademark signs removed,
// every remaining character outside [a-z0-9] and whitespace replaced with a
// space, and whitespace collapsed. Two raw names are the same name for
// indexing purposes iff their canonical forms are equal. Empty or
// whitespace-only input yields "".
func Name(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch r {
		case '‘', '’': // curly single quotes
			r = '\''
		case '–', '—': // en and em dash
			r = '-'
		case '®', '™': // ® and ™ vanish without leaving a space
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TokenSort returns the canonical form with its tokens sorted, so that
// word-order variants ("disorder, bipolar" vs "bipolar disorder") compare as
// equal strings. Used for similarity scoring only, never for index keys.
func TokenSort(raw string) string {
	fields := strings.Fields(Name(raw))
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// isSynonymDelim reports whether r separates entries in a list-name field.
func isSynonymDelim(r rune) bool {
	return r == ',' || r == ';' || r == '/' || r == '|'
}

// SplitSynonyms decomposes a delimited list-name field into raw name pieces.
// Doubled-quote escaping and surrounding quotes are stripped, pieces are
// split on commas, semicolons, slashes, or pipes, and empty pieces are
// dropped. Source order is preserved; duplicates survive here and collapse
// later at indexing time via the canonical form.
func SplitSynonyms(field string) []string {
	text := strings.TrimSpace(strings.ReplaceAll(field, `""`, `"`))
	text = strings.Trim(text, `"`)
	if text == "" {
		return nil
	}
	var out []string
	for _, piece := range strings.FieldsFunc(text, isSynonymDelim) {
		piece = strings.TrimSpace(strings.Trim(strings.TrimSpace(piece), `"`))
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
