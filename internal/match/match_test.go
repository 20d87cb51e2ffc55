package match

import (
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/pdiddy/clinpgx-lookup/internal/index"
	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

// --- test helpers ---

// testIndex assembles a NameIndex from literal maps, deriving the sorted
// candidate list and ID ordering the build step would produce.
func testIndex(t *testing.T, nameToIDs map[string][]string, primary map[string]string) *index.NameIndex {
	t.Helper()
	if primary == nil {
		primary = map[string]string{}
	}
	ix := &index.NameIndex{
		NameToIDs:    make(map[string][]string, len(nameToIDs)),
		Candidates:   make([]string, 0, len(nameToIDs)),
		PrimaryNames: primary,
	}
	for name, ids := range nameToIDs {
		sorted := append([]string(nil), ids...)
		sort.Strings(sorted)
		ix.NameToIDs[name] = sorted
		ix.Candidates = append(ix.Candidates, name)
	}
	sort.Strings(ix.Candidates)
	return ix
}

func resultIDs(results []types.MatchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

// --- exact path ---

func TestLookupExactMatch(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"abacavir":         {"PA1"},
		"abc":              {"PA1"},
		"ziagen generic":   {"PA1"},
		"abacavir sulfate": {"PA2"},
	}, map[string]string{"PA1": "Abacavir", "PA2": "Abacavir Sulfate"})

	got := Lookup(ix, "abacavir", 0.6, 5)
	want := []types.MatchResult{{ID: "PA1", Name: "Abacavir", Score: 1.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup = %+v, want %+v", got, want)
	}
}

func TestLookupExactShortCircuitsFuzzy(t *testing.T) {
	// "abacavir1" would clear any reasonable threshold against "abacavir";
	// its absence proves the fuzzy scan never ran.
	ix := testIndex(t, map[string][]string{
		"abacavir":  {"PA1"},
		"abacavir1": {"PA9"},
	}, nil)

	got := Lookup(ix, "Abacavir", 0.1, 5)
	if ids := resultIDs(got); !reflect.DeepEqual(ids, []string{"PA1"}) {
		t.Errorf("exact hit must suppress fuzzy results, got %v", ids)
	}
}

func TestLookupExactOrdersByShortestAssociatedName(t *testing.T) {
	// PA2 owns the short alias "t", so it outranks PA1 under the shared key.
	ix := testIndex(t, map[string][]string{
		"tylenol pm": {"PA1", "PA2"},
		"t":          {"PA2"},
	}, nil)

	got := Lookup(ix, "Tylenol PM", 0.6, 5)
	if ids := resultIDs(got); !reflect.DeepEqual(ids, []string{"PA2", "PA1"}) {
		t.Errorf("order = %v, want [PA2 PA1]", ids)
	}
	for _, r := range got {
		if r.Score != 1.0 {
			t.Errorf("exact result %s score = %v, want 1.0", r.ID, r.Score)
		}
	}
}

func TestLookupExactTieBreaksByID(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"warfarin": {"PA9", "PA3"},
	}, nil)

	got := Lookup(ix, "warfarin", 0.6, 5)
	if ids := resultIDs(got); !reflect.DeepEqual(ids, []string{"PA3", "PA9"}) {
		t.Errorf("order = %v, want [PA3 PA9]", ids)
	}
}

func TestLookupExactNameFallsBackToQuery(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"abacavir": {"PA1"},
	}, nil)

	got := Lookup(ix, "  ABACAVIR  ", 0.6, 5)
	if len(got) != 1 || got[0].Name != "abacavir" {
		t.Errorf("Lookup = %+v, want Name fallback to canonical query", got)
	}
}

func TestLookupExactHonorsTopK(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"aspirin": {"PA1", "PA2", "PA3", "PA4"},
	}, nil)

	got := Lookup(ix, "aspirin", 0.6, 2)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

// --- fuzzy path ---

func TestLookupFuzzyTokenSortedPerfect(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"disorder bipolar": {"PA100"},
	}, nil)

	got := Lookup(ix, "Bipolar Disorder", 0.6, 5)
	want := []types.MatchResult{{ID: "PA100", Name: "disorder bipolar", Score: 1.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup = %+v, want %+v", got, want)
	}
}

func TestLookupFuzzyBelowThresholdExcluded(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"zzzzzzzz": {"PA1"},
	}, nil)

	if got := Lookup(ix, "abacavir", 0.6, 5); len(got) != 0 {
		t.Errorf("Lookup = %+v, want empty", got)
	}
}

func TestLookupFuzzyAggregatesMaxPerID(t *testing.T) {
	// Both names map to PA1. "abacavir sulfate" scores 2*8/24 against
	// "abacavir"; "abacavirx" scores 2*8/17 and must win the aggregate.
	ix := testIndex(t, map[string][]string{
		"abacavir sulfate": {"PA1"},
		"abacavirx":        {"PA1"},
	}, nil)

	got := Lookup(ix, "abacavir", 0.6, 5)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (one ID)", len(got))
	}
	if got[0].Name != "abacavirx" {
		t.Errorf("winning name = %q, want abacavirx", got[0].Name)
	}
	if want := 2.0 * 8 / 17; got[0].Score != want {
		t.Errorf("score = %v, want %v", got[0].Score, want)
	}
}

func TestLookupFuzzyTieBreakShorterNameFirst(t *testing.T) {
	// Against query "ab", both "a" (2*1/3) and "abab" (2*2/6) score exactly
	// 2/3; the shorter winning name ranks first regardless of ID order.
	ix := testIndex(t, map[string][]string{
		"a":    {"PA2"},
		"abab": {"PA1"},
	}, nil)

	got := Lookup(ix, "ab", 0.6, 5)
	if ids := resultIDs(got); !reflect.DeepEqual(ids, []string{"PA2", "PA1"}) {
		t.Errorf("order = %v, want [PA2 PA1] (shorter name wins)", ids)
	}
	if got[0].Score != got[1].Score {
		t.Fatalf("scores differ (%v vs %v); tie-break not exercised", got[0].Score, got[1].Score)
	}
}

func TestLookupFuzzyTieBreakByID(t *testing.T) {
	// "ax" and "ay" both score 2*1/4 against "ab" with equal name lengths.
	ix := testIndex(t, map[string][]string{
		"ax": {"PA9"},
		"ay": {"PA3"},
	}, nil)

	got := Lookup(ix, "ab", 0.4, 5)
	if ids := resultIDs(got); !reflect.DeepEqual(ids, []string{"PA3", "PA9"}) {
		t.Errorf("order = %v, want [PA3 PA9]", ids)
	}
}

func TestLookupFuzzyHonorsTopK(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"abacavir a": {"PA1"},
		"abacavir b": {"PA2"},
		"abacavir c": {"PA3"},
	}, nil)

	got := Lookup(ix, "abacavir", 0.6, 2)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestLookupThresholdMonotonicity(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"abacavir sulfate":  {"PA2"},
		"abacavirx":         {"PA1"},
		"abacavir sodium":   {"PA3"},
		"completely other":  {"PA4"},
		"abacaviry zzzzzzz": {"PA5"},
	}, nil)

	high := Lookup(ix, "abacavir", 0.9, 5)
	low := Lookup(ix, "abacavir", 0.5, 5)

	if len(low) < len(high) {
		t.Fatalf("lowering threshold shrank results: %d -> %d", len(high), len(low))
	}
	if !reflect.DeepEqual(low[:len(high)], high) {
		t.Errorf("high-threshold results %+v are not a prefix of low-threshold results %+v", high, low)
	}
}

func TestLookupDeterminism(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"abacavir sulfate": {"PA2", "PA7"},
		"abacavirx":        {"PA1"},
		"abacavir sodium":  {"PA3"},
	}, nil)

	first := Lookup(ix, "abacavir", 0.5, 5)
	for i := 0; i < 10; i++ {
		if got := Lookup(ix, "abacavir", 0.5, 5); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestLookupNormalizationEquivalence(t *testing.T) {
	ix := testIndex(t, map[string][]string{
		"abacavir": {"PA1"},
	}, map[string]string{"PA1": "Abacavir"})

	base := Lookup(ix, "Abacavir", 0.6, 5)
	for _, q := range []string{"  ABACAVIR  ", "abacavir®", "Abacavir"} {
		if got := Lookup(ix, q, 0.6, 5); !reflect.DeepEqual(got, base) {
			t.Errorf("Lookup(%q) = %+v, want %+v", q, got, base)
		}
	}
}

func TestLookupEmptyQuery(t *testing.T) {
	ix := testIndex(t, map[string][]string{"abacavir": {"PA1"}}, nil)

	if got := Lookup(ix, "", 0.6, 5); got != nil {
		t.Errorf("Lookup(\"\") = %+v, want nil", got)
	}
	if got := Lookup(ix, "  \t ", 0.6, 5); got != nil {
		t.Errorf("whitespace query = %+v, want nil", got)
	}
}

func TestLookupNonPositiveTopK(t *testing.T) {
	ix := testIndex(t, map[string][]string{"abacavir": {"PA1"}}, nil)

	if got := Lookup(ix, "abacavir", 0.6, 0); got != nil {
		t.Errorf("topK=0 returned %+v, want nil", got)
	}
	if got := Lookup(ix, "abacavir", 0.6, -3); got != nil {
		t.Errorf("topK=-3 returned %+v, want nil", got)
	}
}

// --- length prune ---

func TestSkipByLengthNeverPrunesQualifyingPair(t *testing.T) {
	// Runs of a single repeated character score exactly 2*min/(la+lb), the
	// ceiling the prune tests against, so any unsound skip shows up here.
	run := func(n int) string {
		s := make([]byte, n)
		for i := range s {
			s[i] = 'a'
		}
		return string(s)
	}
	for _, threshold := range []float64{0.3, 0.6, 0.9} {
		for la := 1; la <= 12; la++ {
			for lb := 1; lb <= 12; lb++ {
				if !skipByLength(la, lb, threshold) {
					continue
				}
				if sim := Similarity(run(la), run(lb)); sim >= threshold {
					t.Errorf("skipByLength(%d, %d, %v) pruned a pair scoring %v", la, lb, threshold, sim)
				}
			}
		}
	}
}

func TestSkipByLengthKeepsBoundaryPair(t *testing.T) {
	// 2*7/(7+16) is just above 0.6, so the pair must survive the prune.
	if skipByLength(7, 16, 0.6) {
		t.Error("skipByLength(7, 16, 0.6) = true, want false")
	}
	if !skipByLength(2, 16, 0.6) {
		t.Error("skipByLength(2, 16, 0.6) = false, want true")
	}
}

func TestLookupParallelMatchesSequential(t *testing.T) {
	// Enough candidates to cross the parallel cutoff.
	nameToIDs := make(map[string][]string, parallelCutoff+100)
	for i := 0; i < parallelCutoff+100; i++ {
		nameToIDs[fmt.Sprintf("name%04d", i)] = []string{fmt.Sprintf("PA%04d", i)}
	}
	ix := testIndex(t, nameToIDs, nil)

	got := Lookup(ix, "name00", 0.6, 10)

	seq := rank(scanRange(ix, "name00", 0.6, ix.Candidates), 10)
	if !reflect.DeepEqual(got, seq) {
		t.Errorf("parallel result differs from sequential:\n%+v\nvs\n%+v", got, seq)
	}
	if len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}
}
