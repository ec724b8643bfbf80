// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awardid

import (
	"testing"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

func TestClassifyAbsent(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	matched, mt := Classify(ID{}, ID{}, cfg)
	if !matched || mt != types.MatchExact {
		t.Errorf("Classify(absent, absent) = (%v, %s), want (true, exact)", matched, mt)
	}

	matched, mt = Classify(ID{}, New("X"), cfg)
	if matched || mt != types.MatchNone {
		t.Errorf("Classify(absent, X) = (%v, %s), want (false, none)", matched, mt)
	}

	matched, mt = Classify(New("X"), ID{}, cfg)
	if matched || mt != types.MatchNone {
		t.Errorf("Classify(X, absent) = (%v, %s), want (false, none)", matched, mt)
	}
}

func TestClassifyReflexive(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	for _, raw := range []string{"NSF-1234567", "", "  padded  ", "Régional-2014", "12345"} {
		matched, mt := Classify(New(raw), New(raw), cfg)
		if !matched || mt != types.MatchExact {
			t.Errorf("Classify(%q, %q) = (%v, %s), want (true, exact)", raw, raw, matched, mt)
		}
	}
}

func TestClassify(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	tests := []struct {
		name        string
		a, b        string
		wantMatched bool
		wantType    types.MatchType
	}{
		{"exact", "NSF-12345", "NSF-12345", true, types.MatchExact},
		{"exact after trim", " NSF-12345 ", "NSF-12345", true, types.MatchExact},
		{"raw substring", "NSF-12345", "12345", true, types.MatchSubstring},
		{"normalized substring", "NSF 12345", "nsf-12345-X", true, types.MatchSubstring},
		{"normalized forms equal", "nsf/12345", "NSF-12345", true, types.MatchSubstring},
		{"fuzzy single typo", "GRANT-ALPHA", "GRANT-ALPHX", true, types.MatchFuzzy},
		{"structured pass is fuzzy", "NSF-007-123", "NSF-7-123", true, types.MatchFuzzy},
		{"different serials", "2019-AB-100", "2020-AB-100", false, types.MatchNone},
		{"unrelated", "ABC-123", "XYZ-999", false, types.MatchNone},
		{"empty vs value", "", "NSF-12345", false, types.MatchNone},
		{"structured ids never fuzzy", "12-AB-CD-34", "12-AB-CD-99", false, types.MatchNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, mt := Classify(New(tt.a), New(tt.b), cfg)
			if matched != tt.wantMatched || mt != tt.wantType {
				t.Errorf("Classify(%q, %q) = (%v, %s), want (%v, %s)",
					tt.a, tt.b, matched, mt, tt.wantMatched, tt.wantType)
			}
		})
	}
}

func TestClassifyMatchTypeSubsets(t *testing.T) {
	base := types.DefaultMatcherConfig()

	tests := []struct {
		name        string
		enabled     []types.MatchType
		a, b        string
		wantMatched bool
		wantType    types.MatchType
	}{
		{"substring disabled", []types.MatchType{types.MatchNormalized}, "NSF-12345", "12345", false, types.MatchNone},
		{"normalized only", []types.MatchType{types.MatchNormalized}, "nsf/12345", "NSF-12345", true, types.MatchNormalized},
		{"fuzzy disabled", []types.MatchType{types.MatchSubstring, types.MatchNormalized}, "GRANT-ALPHA", "GRANT-ALPHX", false, types.MatchNone},
		{"exact always on", nil, "NSF-12345", "NSF-12345", true, types.MatchExact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.MatchTypes = tt.enabled
			matched, mt := Classify(New(tt.a), New(tt.b), cfg)
			if matched != tt.wantMatched || mt != tt.wantType {
				t.Errorf("Classify(%q, %q) = (%v, %s), want (%v, %s)",
					tt.a, tt.b, matched, mt, tt.wantMatched, tt.wantType)
			}
		})
	}
}

func TestClassifyFuzzyGuards(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	// Low structural confidence cuts fuzzy matching off before any
	// ratio is computed: single-token typos never match.
	if matched, _ := Classify(New("ABCDEFGH"), New("ABCDEFGX"), cfg); matched {
		t.Error("single-token typo should not fuzzy match (structural confidence 0)")
	}

	// Digit-bearing identifiers need a 0.95 ratio regardless of the
	// configured threshold.
	loose := cfg
	loose.FuzzyThreshold = 0.5
	if matched, _ := Classify(New("GRANT1-ALPHA"), New("GRANT1-ALPHZZZ"), loose); matched {
		t.Error("digit-bearing pair below 0.95 ratio should not fuzzy match")
	}
}
