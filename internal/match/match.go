// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match resolves query strings against a built name index, by exact
// key lookup or similarity-ranked fuzzy scan.
// Implements: docs/ARCHITECTURE § Matching.
package match

import (
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/clinpgx-lookup/internal/index"
	"github.com/pdiddy/clinpgx-lookup/internal/normalize"
	"github.com/pdiddy/clinpgx-lookup/pkg/types"
)

// parallelCutoff is the candidate count above which the fuzzy scan shards
// across workers. Below it, goroutine overhead outweighs the scan.
const parallelCutoff = 4096

// Lookup resolves query against ix, returning at most topK results ordered
// by score descending with deterministic tie-breaks. An exact hit on the
// query's canonical form short-circuits: every exact result scores 1.0 and
// no fuzzy scoring runs. Otherwise every candidate is scored against the
// query and IDs reaching threshold are ranked. An empty query, or topK <= 0,
// yields no results. The index is never mutated; concurrent lookups against
// the same index are safe.
func Lookup(ix *index.NameIndex, query string, threshold float64, topK int) []types.MatchResult {
	if topK <= 0 {
		return nil
	}
	q := normalize.Name(query)
	if q == "" {
		return nil
	}

	if ids, ok := ix.NameToIDs[q]; ok {
		return exactResults(ix, q, ids, topK)
	}

	var best hitMap
	if len(ix.Candidates) >= parallelCutoff {
		best = fuzzyParallel(ix, q, threshold)
	} else {
		best = fuzzySequential(ix, q, threshold, topK)
	}
	if len(best) == 0 {
		return nil
	}
	return rank(best, topK)
}

// --- exact path ---

func exactResults(ix *index.NameIndex, q string, ids []string, topK int) []types.MatchResult {
	shortest := shortestNameLengths(ix, ids)

	ordered := append([]string(nil), ids...)
	sort.Slice(ordered, func(i, j int) bool {
		li, lj := shortest[ordered[i]], shortest[ordered[j]]
		if li != lj {
			return li < lj
		}
		return ordered[i] < ordered[j]
	})
	if len(ordered) > topK {
		ordered = ordered[:topK]
	}

	results := make([]types.MatchResult, 0, len(ordered))
	for _, id := range ordered {
		name := ix.PrimaryNames[id]
		if name == "" {
			name = q
		}
		results = append(results, types.MatchResult{ID: id, Name: name, Score: 1.0})
	}
	return results
}

// shortestNameLengths maps each requested ID to the length of its shortest
// associated canonical name, spaces stripped. When several names alias one
// ID, the single/simple form outranks combination-product or multi-clause
// synonyms.
func shortestNameLengths(ix *index.NameIndex, ids []string) map[string]int {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	shortest := make(map[string]int, len(ids))
	for name, owners := range ix.NameToIDs {
		l := strippedLen(name)
		for _, id := range owners {
			if _, ok := want[id]; !ok {
				continue
			}
			if cur, seen := shortest[id]; !seen || l < cur {
				shortest[id] = l
			}
		}
	}
	return shortest
}

func strippedLen(name string) int {
	return len(name) - strings.Count(name, " ")
}

// --- fuzzy path ---

// fuzzyHit is the best score seen for one ID and the candidate behind it.
type fuzzyHit struct {
	score   float64
	name    string
	nameLen int
}

type hitMap map[string]fuzzyHit

// record folds a qualifying (candidate, score) pair into every ID the
// candidate maps to, keeping the maximum score per ID. On equal scores the
// earlier-scanned candidate stays, so sorted scan order fixes the winner.
// Returns how many IDs newly reached a perfect score.
func (best hitMap) record(ix *index.NameIndex, cand string, score float64) int {
	perfect := 0
	l := strippedLen(cand)
	for _, id := range ix.NameToIDs[cand] {
		if cur, ok := best[id]; ok && score <= cur.score {
			continue
		}
		if score == 1.0 {
			perfect++
		}
		best[id] = fuzzyHit{score: score, name: cand, nameLen: l}
	}
	return perfect
}

// skipByLength prunes candidates whose length difference alone caps the
// score below threshold: matching is bounded by the shorter string, so the
// best reachable score is 2*min(la,lb)/(la+lb). Token sorting preserves
// length, so canonical-form lengths are the right inputs.
func skipByLength(la, lb int, threshold float64) bool {
	return 2*float64(min(la, lb)) < threshold*float64(la+lb)
}

func fuzzySequential(ix *index.NameIndex, q string, threshold float64, topK int) hitMap {
	best := make(hitMap)
	sc := newScorer(q)
	perfect := 0
	for _, cand := range ix.Candidates {
		if skipByLength(len(q), len(cand), threshold) {
			continue
		}
		score := sc.score(cand)
		if score < threshold {
			continue
		}
		perfect += best.record(ix, cand, score)
		// Stop once perfect matches alone can fill the result set. Counting
		// only perfect IDs keeps the cut point independent of threshold, so
		// lowering the threshold never reorders or drops results.
		if perfect >= topK {
			break
		}
	}
	return best
}

// fuzzyParallel shards the candidate scan across workers. Shards are
// contiguous ranges of the sorted candidate list and merge in shard order
// with equal scores keeping the earlier hit, reproducing the sequential
// scan's output exactly.
func fuzzyParallel(ix *index.NameIndex, q string, threshold float64) hitMap {
	workers := runtime.GOMAXPROCS(0)
	n := len(ix.Candidates)
	chunk := (n + workers - 1) / workers

	shards := make([]hitMap, (n+chunk-1)/chunk)
	var wg sync.WaitGroup
	for slot := range shards {
		lo := slot * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(slot, lo, hi int) {
			defer wg.Done()
			shards[slot] = scanRange(ix, q, threshold, ix.Candidates[lo:hi])
		}(slot, lo, hi)
	}
	wg.Wait()

	best := make(hitMap)
	for _, shard := range shards {
		for id, hit := range shard {
			if cur, ok := best[id]; !ok || hit.score > cur.score {
				best[id] = hit
			}
		}
	}
	return best
}

func scanRange(ix *index.NameIndex, q string, threshold float64, cands []string) hitMap {
	best := make(hitMap)
	sc := newScorer(q)
	for _, cand := range cands {
		if skipByLength(len(q), len(cand), threshold) {
			continue
		}
		score := sc.score(cand)
		if score < threshold {
			continue
		}
		best.record(ix, cand, score)
	}
	return best
}

// rank orders aggregated hits by score descending, then by the spaces-
// stripped length of the winning candidate ascending, then by ID ascending,
// and truncates to topK.
func rank(best hitMap, topK int) []types.MatchResult {
	ids := make([]string, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		hi, hj := best[ids[i]], best[ids[j]]
		if hi.score != hj.score {
			return hi.score > hj.score
		}
		if hi.nameLen != hj.nameLen {
			return hi.nameLen < hj.nameLen
		}
		return ids[i] < ids[j]
	})
	if len(ids) > topK {
		ids = ids[:topK]
	}

	results := make([]types.MatchResult, 0, len(ids))
	for _, id := range ids {
		hit := best[id]
		results = append(results, types.MatchResult{ID: id, Name: hit.name, Score: hit.score})
	}
	return results
}
