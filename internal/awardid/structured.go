// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awardid

import "github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"

// StructuredMatch aligns the segment sequences of two identifiers
// positionally and reports whether they denote the same grant, with a
// confidence in [0, 1]. Empty identifiers and sequences whose lengths
// differ by more than cfg.SegmentTolerance never match.
//
// A numeric-vs-numeric mismatch at the first position, or at the final
// position of either sequence, aborts the alignment: boundary segments
// are usually serial numbers, and a differing serial overrides however
// many interior segments agree. The aborted confidence is the fraction
// of segments matched before the mismatch, which can undercount the
// pairs that would have aligned after it.
func StructuredMatch(id1, id2 string, cfg types.MatcherConfig) (bool, float64) {
	segs1 := Segments(id1)
	segs2 := Segments(id2)

	if len(segs1) == 0 || len(segs2) == 0 {
		return false, 0
	}

	diff := len(segs1) - len(segs2)
	if diff < 0 {
		diff = -diff
	}
	if diff > cfg.SegmentTolerance {
		return false, 0
	}

	matched := 0
	total := max(len(segs1), len(segs2))

	for i := 0; i < min(len(segs1), len(segs2)); i++ {
		if segmentsCompatible(segs1[i], segs2[i]) {
			matched++
			continue
		}
		if IsNumeric(segs1[i]) && IsNumeric(segs2[i]) &&
			(i == 0 || i == len(segs1)-1 || i == len(segs2)-1) {
			return false, float64(matched) / float64(total)
		}
	}

	confidence := float64(matched) / float64(total)
	return confidence >= cfg.StructuredCutoff, confidence
}
