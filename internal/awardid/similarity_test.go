// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awardid

import (
	"math"
	"testing"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

func TestSimilaritySpecialCases(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	tests := []struct {
		name string
		a, b ID
		want float64
	}{
		{"both absent", ID{}, ID{}, 1.0},
		{"left absent", ID{}, New("NSF-123"), 0.0},
		{"right absent", New("NSF-123"), ID{}, 0.0},
		{"raw equality", New("NSF-123"), New("NSF-123"), 1.0},
		{"equality after trim", New("  NSF-123"), New("NSF-123  "), 1.0},
		{"normalized equality", New("nsf 123"), New("NSF-123"), 0.95},
		{"disjoint equal length", New("ABCD"), New("WXYZ"), 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b, cfg); got != tt.want {
				t.Errorf("Similarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	ids := []ID{
		{},
		New(""),
		New("NSF-1234567"),
		New("1234567"),
		New("nsf 12-34567"),
		New("R01-HL-123456"),
		New("2019-AB-100"),
		New("2020-AB-100"),
		New("GRANT-ALPHA"),
		New("GRANT-ALPHX"),
		New("ANR–16–CE33–0023"),
	}
	for _, a := range ids {
		for _, b := range ids {
			ab := Similarity(a, b, cfg)
			ba := Similarity(b, a, cfg)
			if ab != ba {
				t.Errorf("Similarity(%v, %v) = %v but reversed = %v", a, b, ab, ba)
			}
		}
	}
}

func TestSimilarityStructuredIdentifiers(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	// Two numeric segments on both sides: score is the structural
	// confidence, free-text metrics are bypassed entirely.
	got := Similarity(New("12-AB-34"), New("12-AB-99"), cfg)
	// Trailing numeric mismatch bails with 2 of 3 matched.
	if math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("structured pair score = %v, want 2/3", got)
	}
}

func TestSimilarityContainmentBonus(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	// "12345" is contained in "NSF12345"; the containment bonus floors
	// the score at 0.9 even though the length ratio is lower.
	got := Similarity(New("NSF-12345"), New("12345"), cfg)
	if got < 0.9 {
		t.Errorf("containment score = %v, want >= 0.9", got)
	}
}

func TestSimilarityStructuredCap(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	// One aligned segment of two matches: structural confidence 0.5.
	// The free-text ratio of 0.9 is capped at 0.5 + 0.1.
	got := Similarity(New("GRANT-ALPHA"), New("GRANT-ALPHX"), cfg)
	if math.Abs(got-0.6) > 1e-9 {
		t.Errorf("capped score = %v, want 0.6", got)
	}
}

func TestSimilarityUncappedWhenNoStructuralSignal(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	// Single-segment identifiers with zero structural confidence: the
	// best free-text metric stands.
	got := Similarity(New("ABC999"), New("ABC123"), cfg)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("score = %v, want 0.5", got)
	}
}

func TestSequenceRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"empty", "", "ABC", 0},
		{"identical", "ABC", "ABC", 1.0},
		{"disjoint", "ABC", "XYZ", 0},
		{"shared prefix", "GRANTALPHA", "GRANTALPHX", 0.9},
		{"recursive blocks", "ABCXXXDEF", "ABCYYYDEF", 2.0 / 3.0},
		// Only single characters are shared; the block search must land
		// on the same decomposition regardless of argument order.
		{"order independent", "R01HL123456", "2020AB100", 0.1},
		{"order independent reversed", "2020AB100", "R01HL123456", 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sequenceRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("sequenceRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLongestCommonSubstring(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"ABC", "", 0},
		{"ABC", "ABC", 3},
		{"XABCY", "ZABCW", 3},
		{"ABC", "XYZ", 0},
		{"ABAB", "BABA", 3},
	}
	for _, tt := range tests {
		if got := longestCommonSubstring(tt.a, tt.b); got != tt.want {
			t.Errorf("longestCommonSubstring(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
