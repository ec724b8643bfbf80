// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awardid

import "strings"

// IsNumeric reports whether s is non-empty and consists solely of ASCII
// digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// numericEqual compares two digit strings as integers. Stripping leading
// zeros keeps the comparison exact for serials of any length.
func numericEqual(a, b string) bool {
	return strings.TrimLeft(a, "0") == strings.TrimLeft(b, "0")
}

// digitRuns returns the maximal runs of consecutive digits in s, in order.
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}

// runsEqual compares digit runs pairwise as integers, up to the shorter
// list.
func runsEqual(a, b []string) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if !numericEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// segmentsCompatible decides whether two segments denote the same
// underlying value. Numeric serials must agree exactly, allowing only
// zero padding and 2-vs-4-digit year abbreviation; alphabetic program
// codes tolerate partial containment.
func segmentsCompatible(a, b string) bool {
	if a == b {
		return true
	}

	aNum, bNum := IsNumeric(a), IsNumeric(b)
	switch {
	case aNum && bNum:
		if numericEqual(a, b) {
			return true
		}
		// Year abbreviation: "2007" vs "07".
		if len(a) == 4 && len(b) == 2 && strings.HasSuffix(a, b) {
			return true
		}
		if len(b) == 4 && len(a) == 2 && strings.HasSuffix(b, a) {
			return true
		}
		return false
	case aNum != bNum:
		return false
	}

	// One token extends the other and the embedded numbers agree:
	// "AHRC123" vs "AHRC123X".
	if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
		aRuns, bRuns := digitRuns(a), digitRuns(b)
		if len(aRuns) > 0 && len(bRuns) > 0 && runsEqual(aRuns, bRuns) {
			return true
		}
	}

	// Identical alphabetic cores. The leading numeric run, when present
	// on both sides, must agree; otherwise "ABC123" and "ABC456" would
	// pass on letters alone.
	if stripDigits(a) == stripDigits(b) {
		aRuns, bRuns := digitRuns(a), digitRuns(b)
		if len(aRuns) > 0 && len(bRuns) > 0 && !numericEqual(aRuns[0], bRuns[0]) {
			return false
		}
		return true
	}

	return strings.Contains(a, b) || strings.Contains(b, a)
}

func stripDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
