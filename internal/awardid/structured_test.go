package awardid

import (
	"math"
	"testing"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

func TestStructuredMatch(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	tests := []struct {
		name       string
		id1, id2   string
		wantMatch  bool
		wantConf   float64
	}{
		{"identical", "NSF-12-345", "NSF-12-345", true, 1.0},
		{"empty left", "", "NSF-12-345", false, 0},
		{"empty right", "NSF-12-345", "", false, 0},
		{"both empty", "", "", false, 0},
		{"delimiter variants", "NSF_12.345", "NSF-12-345", true, 1.0},
		{"segment count gap too large", "A-B-C-D-E-F", "A-B", false, 0},
		{"segment count gap at tolerance", "A-B-C-D", "A-B", false, 0.5},
		{"zero padded serial", "NSF-007-123", "NSF-7-123", true, 1.0},
		{"leading year differs", "2019-AB-100", "2020-AB-100", false, 0},
		{"trailing serial differs", "AB-CD-100", "AB-CD-200", false, 2.0 / 3.0},
		{"non numeric mismatch keeps going", "AB-XX-100", "AB-YY-100", false, 2.0 / 3.0},
		{"three of four segments", "A-B-C-9", "A-B-C", true, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMatch, gotConf := StructuredMatch(tt.id1, tt.id2, cfg)
			if gotMatch != tt.wantMatch {
				t.Errorf("StructuredMatch(%q, %q) match = %v, want %v", tt.id1, tt.id2, gotMatch, tt.wantMatch)
			}
			if math.Abs(gotConf-tt.wantConf) > 1e-9 {
				t.Errorf("StructuredMatch(%q, %q) confidence = %v, want %v", tt.id1, tt.id2, gotConf, tt.wantConf)
			}
		})
	}
}

// TestStructuredMatchBoundaryBailout pins the current numeric-boundary
// behavior: a leading numeric mismatch returns before interior segments
// are examined, so the reported confidence can be lower than the number
// of segments that would have aligned. Downstream thresholds were tuned
// against this, so it is preserved as-is.
func TestStructuredMatchBoundaryBailout(t *testing.T) {
	cfg := types.DefaultMatcherConfig()

	// Two of three segments agree, but the leading year difference
	// aborts before they are counted.
	_, conf := StructuredMatch("2019-AB-100", "2020-AB-100", cfg)
	if conf != 0 {
		t.Errorf("leading mismatch confidence = %v, want 0 (interior matches uncounted)", conf)
	}

	// An interior numeric mismatch does not abort: the surrounding
	// segments still count, only the mismatched one is uncredited.
	_, conf = StructuredMatch("AB-2019-100", "AB-2020-100", cfg)
	if math.Abs(conf-2.0/3.0) > 1e-9 {
		t.Errorf("interior numeric mismatch confidence = %v, want 2/3", conf)
	}
}

func TestStructuredMatchCustomCutoff(t *testing.T) {
	cfg := types.DefaultMatcherConfig()
	cfg.StructuredCutoff = 0.5

	ok, conf := StructuredMatch("A-B-C-D", "A-B", cfg)
	if !ok || conf != 0.5 {
		t.Errorf("StructuredMatch with cutoff 0.5 = (%v, %v), want (true, 0.5)", ok, conf)
	}
}

func TestStructuredMatchCustomTolerance(t *testing.T) {
	cfg := types.DefaultMatcherConfig()
	cfg.SegmentTolerance = 0

	ok, conf := StructuredMatch("A-B-C", "A-B", cfg)
	if ok || conf != 0 {
		t.Errorf("StructuredMatch with tolerance 0 = (%v, %v), want (false, 0)", ok, conf)
	}
}
