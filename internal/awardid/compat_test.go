package awardid

import "testing"

func TestSegmentsCompatible(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "ABC", "ABC", true},
		{"identical numeric", "123", "123", true},
		{"leading zeros", "007", "7", true},
		{"zero only", "0", "000", true},
		{"different numbers", "123", "124", false},
		{"year abbreviation", "2007", "07", true},
		{"year abbreviation reversed", "07", "2007", true},
		{"year abbreviation wrong suffix", "2007", "08", false},
		{"three digit suffix is not a year", "2007", "007", false},
		{"long serials differ", "123456789012345678901", "123456789012345678902", false},
		{"long serials zero padded", "0123456789012345678901", "123456789012345678901", true},
		{"numeric vs alpha", "123", "ABC", false},
		{"numeric vs alphanumeric", "123", "A123", false},
		{"prefix with equal numbers", "AHRC123", "AHRC123X", true},
		{"prefix pairs numbers up to shorter list", "GRANT12", "GRANT12X99", true},
		{"prefix extended serial rejected by core rule", "ABC123", "ABC1234", false},
		{"prefix no digits on one side", "ABCD", "ABC", true},
		{"punctuated core differs", "R01HL123", "R01-HL123", false},
		{"alpha core equal first runs equal", "AB01CD", "AB1CD", true},
		{"alpha core equal first runs differ", "ABC123", "ABC456", false},
		{"containment", "HL123456", "XHL123456Y", true},
		{"disjoint", "ABC", "XYZ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := segmentsCompatible(tt.a, tt.b); got != tt.want {
				t.Errorf("segmentsCompatible(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"123", true},
		{"0", true},
		{"12a", false},
		{"-12", false},
		{" 12", false},
	}
	for _, tt := range tests {
		if got := IsNumeric(tt.in); got != tt.want {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDigitRuns(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ABC", nil},
		{"A1B22C333", []string{"1", "22", "333"}},
		{"123", []string{"123"}},
		{"12AB34", []string{"12", "34"}},
	}
	for _, tt := range tests {
		got := digitRuns(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("digitRuns(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("digitRuns(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
