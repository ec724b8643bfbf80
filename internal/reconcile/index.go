// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"sort"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/awardid"
)

// Index is an inverted index from identifier segment to the set of
// identifiers containing that segment. It is built once per
// reconciliation pass and read-only afterwards, so concurrent lookups
// are safe.
type Index struct {
	postings map[string]map[string]struct{}
	size     int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{postings: make(map[string]map[string]struct{})}
}

// Add indexes id under each of its segments. Purely numeric segments of
// one or two digits are skipped: fragments that short occur in a large
// share of identifiers and would defeat candidate pruning.
func (ix *Index) Add(id string) {
	for _, seg := range awardid.Segments(id) {
		if len(seg) <= 2 && awardid.IsNumeric(seg) {
			continue
		}
		set, ok := ix.postings[seg]
		if !ok {
			set = make(map[string]struct{})
			ix.postings[seg] = set
		}
		if _, ok := set[id]; !ok {
			set[id] = struct{}{}
			ix.size++
		}
	}
}

// Candidates returns the union of identifiers sharing at least one
// segment with id, sorted for deterministic iteration.
func (ix *Index) Candidates(id string) []string {
	seen := make(map[string]struct{})
	for _, seg := range awardid.Segments(id) {
		for cand := range ix.postings[seg] {
			seen[cand] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for cand := range seen {
		out = append(out, cand)
	}
	sort.Strings(out)
	return out
}

// Segments returns the number of distinct segments indexed.
func (ix *Index) Segments() int {
	return len(ix.postings)
}

// Postings returns the total number of identifier postings.
func (ix *Index) Postings() int {
	return ix.size
}
