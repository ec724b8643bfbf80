// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awardid

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

// Similarity blends several string-distance signals into a single score
// in [0, 1]. It is symmetric.
//
// Both absent scores 1.0, exactly one absent 0.0, raw equality 1.0, and
// normalized equality 0.95 so exact matches stay distinguishable
// downstream. Identifiers with two or more numeric segments on both
// sides are scored by structural alignment alone: free-text metrics
// overweight shared digits on densely structured codes. For everything
// else the score is the best of containment bonus, sequence-alignment
// ratio, edit-distance score, and longest-common-substring score, capped
// at the structural confidence plus 0.1 whenever the structural signal
// is nonzero.
func Similarity(a, b ID, cfg types.MatcherConfig) float64 {
	if !a.Present || !b.Present {
		if !a.Present && !b.Present {
			return 1.0
		}
		return 0.0
	}

	s1 := strings.TrimSpace(a.Raw)
	s2 := strings.TrimSpace(b.Raw)
	if s1 == s2 {
		return 1.0
	}

	n1 := Normalize(s1)
	n2 := Normalize(s2)
	if n1 == n2 {
		return 0.95
	}

	_, structuredConfidence := StructuredMatch(s1, s2, cfg)

	if numericSegmentCount(s1) >= 2 && numericSegmentCount(s2) >= 2 {
		return structuredConfidence
	}

	var scores []float64

	if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
		lengthRatio := float64(min(len(n1), len(n2))) / float64(max(len(n1), len(n2)))
		scores = append(scores, math.Max(0.9, lengthRatio))
	}

	scores = append(scores, sequenceRatio(n1, n2))

	if n1 != "" && n2 != "" {
		dist := levenshtein.ComputeDistance(n1, n2)
		scores = append(scores, 1.0-float64(dist)/float64(max(len(n1), len(n2))))

		lcs := longestCommonSubstring(n1, n2)
		avgLen := float64(len(n1)+len(n2)) / 2
		scores = append(scores, float64(lcs)/avgLen)
	}

	best := 0.0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}

	if structuredConfidence > 0 {
		best = math.Min(best, structuredConfidence+0.1)
	}
	return best
}

// sequenceRatio is the Ratcliff/Obershelp measure: twice the matched
// character count over the total length, where matches are found by
// recursively locating longest common substrings. Equivalent to Python
// difflib's SequenceMatcher ratio without junk heuristics.
func sequenceRatio(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0
	}
	// The recursive block decomposition depends on which side anchors the
	// search, so fix a canonical argument order to keep the score
	// symmetric.
	if s2 < s1 {
		s1, s2 = s2, s1
	}
	return 2 * float64(matchingChars(s1, s2)) / float64(len(s1)+len(s2))
}

func matchingChars(s1, s2 string) int {
	if s1 == "" || s2 == "" {
		return 0
	}
	i, j, size := longestMatch(s1, s2)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(s1[:i], s2[:j]) +
		matchingChars(s1[i+size:], s2[j+size:])
}

// longestMatch locates the longest block with s1[i:i+size] == s2[j:j+size],
// preferring the earliest position in s1 and then in s2 on ties.
func longestMatch(s1, s2 string) (bi, bj, size int) {
	// lengths[j] is the length of the common suffix ending at the
	// previous s1 position and s2[j].
	lengths := make(map[int]int)
	for i := 0; i < len(s1); i++ {
		next := make(map[int]int, len(lengths))
		for j := 0; j < len(s2); j++ {
			if s1[i] != s2[j] {
				continue
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > size {
				bi, bj, size = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return bi, bj, size
}

// longestCommonSubstring returns the length of the longest contiguous
// substring shared by s1 and s2, using a rolling-row DP table.
func longestCommonSubstring(s1, s2 string) int {
	if s1 == "" || s2 == "" {
		return 0
	}
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	best := 0
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			if s1[i-1] == s2[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return best
}
