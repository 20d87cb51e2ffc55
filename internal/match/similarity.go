// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/pdiddy/clinpgx-lookup/internal/normalize"
)

// Similarity scores two raw names on their token-sorted canonical forms,
// returning a value in [0,1]. Token sorting first means word-order variants
// ("disorder, bipolar" vs "bipolar disorder") score 1.0. Returns 0.0 when
// either canonical form is empty.
func Similarity(a, b string) float64 {
	sa, sb := normalize.TokenSort(a), normalize.TokenSort(b)
	if sa == "" || sb == "" {
		return 0
	}
	if sa == sb {
		return 1.0
	}
	return difflib.NewMatcher(splitChars(sa), splitChars(sb)).Ratio()
}

// scorer scores one query against many candidates. The query sits in the
// matcher's second sequence, whose position index is cached, so each
// candidate only pays for resetting the first sequence.
type scorer struct {
	m  *difflib.SequenceMatcher
	qs string
}

func newScorer(q string) *scorer {
	qs := normalize.TokenSort(q)
	return &scorer{m: difflib.NewMatcher(nil, splitChars(qs)), qs: qs}
}

func (s *scorer) score(cand string) float64 {
	cs := normalize.TokenSort(cand)
	if cs == "" {
		return 0
	}
	if cs == s.qs {
		return 1.0
	}
	s.m.SetSeq1(splitChars(cs))
	return s.m.Ratio()
}

// splitChars converts a string to the per-character sequence the sequence
// matcher aligns. Canonical names are ASCII, but splitting by rune keeps
// this safe for arbitrary input.
func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
