// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awardid

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// dashVariants folds the dash lookalikes that appear in funder data
// (hyphen, en dash, em dash, minus sign) into an ASCII hyphen so
// segment splitting is uniform.
var dashVariants = strings.NewReplacer(
	"‐", "-", // hyphen
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
)

// asciiFold applies Unicode compatibility decomposition and drops every
// resulting rune outside the ASCII range. Diacritics decompose into a
// base letter plus combining marks, so "é" folds to "e" while genuinely
// non-Latin runes disappear.
func asciiFold(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize canonicalizes a raw award identifier for comparison: strip
// diacritics, drop everything that is not an ASCII letter or digit, and
// uppercase. It is idempotent and total; empty input yields the empty
// string.
func Normalize(id string) string {
	if id == "" {
		return ""
	}
	folded := asciiFold(id)
	var b strings.Builder
	b.Grow(len(folded))
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		if ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return strings.ToUpper(b.String())
}

// Segments tokenizes an identifier for structural comparison: dash
// variants are folded, diacritics stripped, and the result is split on
// runs of hyphen, underscore, dot, slash, and whitespace. Tokens are
// uppercased; punctuation inside a token is kept. Empty input yields no
// segments.
func Segments(id string) []string {
	if id == "" {
		return nil
	}
	folded := asciiFold(dashVariants.Replace(id))
	fields := strings.FieldsFunc(folded, isDelimiter)
	segs := make([]string, 0, len(fields))
	for _, f := range fields {
		segs = append(segs, strings.ToUpper(f))
	}
	return segs
}

func isDelimiter(r rune) bool {
	switch r {
	case '-', '_', '.', '/':
		return true
	}
	return unicode.IsSpace(r)
}
