// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package awardid matches funder award identifiers across data sources.
// Funders and aggregators format the same award code inconsistently
// ("NSF-1234567", "1234567", "nsf 12-34567"), so the package layers
// normalization, segment-based structural comparison, and fuzzy string
// similarity into a single classification primitive.
//
// Every function is total over its input domain: absent and empty values
// are valid inputs with defined outputs, never errors. Nothing here
// performs I/O or logs; callers compose these primitives into bulk joins.
package awardid

import (
	"strings"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

// ID is an award identifier that may be absent. Absent is distinct from
// the empty string: two absent identifiers classify as exact, an absent
// and a present one never match, and similarity scoring treats the two
// cases differently. The zero value is absent.
type ID struct {
	Raw     string
	Present bool
}

// New returns a present identifier wrapping raw.
func New(raw string) ID {
	return ID{Raw: raw, Present: true}
}

// Classify decides whether two award identifiers denote the same grant
// and labels how. Rules are tested in order and the first satisfied one
// wins: exact raw equality, substring containment, normalized equality,
// then fuzzy similarity. cfg.MatchTypes narrows which of the non-exact
// rules are consulted.
func Classify(a, b ID, cfg types.MatcherConfig) (bool, types.MatchType) {
	if !a.Present || !b.Present {
		if !a.Present && !b.Present {
			return true, types.MatchExact
		}
		return false, types.MatchNone
	}

	s1 := strings.TrimSpace(a.Raw)
	s2 := strings.TrimSpace(b.Raw)

	if s1 == s2 {
		return true, types.MatchExact
	}
	if cfg.Enabled(types.MatchSubstring) && substringMatch(s1, s2) {
		return true, types.MatchSubstring
	}
	if cfg.Enabled(types.MatchNormalized) && s1 != "" && s2 != "" && Normalize(s1) == Normalize(s2) {
		return true, types.MatchNormalized
	}
	if cfg.Enabled(types.MatchFuzzy) && fuzzyMatch(s1, s2, cfg) {
		return true, types.MatchFuzzy
	}

	return false, types.MatchNone
}

// substringMatch tests containment on the raw strings first, then on the
// normalized forms.
func substringMatch(s1, s2 string) bool {
	if s1 == "" || s2 == "" {
		return false
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return true
	}
	n1, n2 := Normalize(s1), Normalize(s2)
	return strings.Contains(n1, n2) || strings.Contains(n2, n1)
}

const (
	// shortIDLimit is the normalized length at or below which fuzzy
	// matching degenerates to equality. Three characters carry too
	// little signal for ratio-based comparison.
	shortIDLimit = 3

	// digitBearingThreshold replaces the configured fuzzy threshold when
	// both normalized forms contain digits: shared digits inflate ratio
	// scores, so the bar is raised.
	digitBearingThreshold = 0.95
)

// fuzzyMatch applies the guarded fuzzy decision. Structured identifiers
// (two or more numeric segments on both sides) are decided by structural
// alignment alone; free-text comparison only runs when the structural
// signal is weak but not dismissive.
func fuzzyMatch(s1, s2 string, cfg types.MatcherConfig) bool {
	if s1 == "" || s2 == "" {
		return false
	}
	if s1 == s2 {
		return true
	}

	n1, n2 := Normalize(s1), Normalize(s2)
	if n1 == n2 {
		return true
	}
	if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
		return true
	}

	ok, confidence := StructuredMatch(s1, s2, cfg)
	if ok {
		return true
	}
	if confidence < 0.5 {
		return false
	}

	if numericSegmentCount(s1) >= 2 && numericSegmentCount(s2) >= 2 {
		return false
	}

	if min(len(n1), len(n2)) <= shortIDLimit {
		return n1 == n2
	}

	ratio := sequenceRatio(n1, n2)
	if containsDigit(n1) && containsDigit(n2) {
		return ratio >= digitBearingThreshold
	}
	return ratio >= cfg.FuzzyThreshold
}

// numericSegmentCount counts the purely numeric segments of id.
func numericSegmentCount(id string) int {
	n := 0
	for _, seg := range Segments(id) {
		if IsNumeric(seg) {
			n++
		}
	}
	return n
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}
