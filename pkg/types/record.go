// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the grants overlap
// analysis: funder-supplied records, grants database records, match
// decisions, and configuration.
package types

import "database/sql"

// GrantRecord is one row of the grants database: a work/funder/award
// mapping extracted from an OpenAlex grants dump. Records are immutable
// once loaded.
type GrantRecord struct {
	// WorkID is the OpenAlex work identifier (e.g. "https://openalex.org/W2036310019").
	WorkID string `json:"work_id" yaml:"work_id"`

	// DOI is lowercased and trimmed at load time. Empty when the source
	// row carried none.
	DOI string `json:"doi" yaml:"doi"`

	// Funder is the OpenAlex funder identifier the grant belongs to.
	Funder string `json:"funder" yaml:"funder"`

	// AwardID is the funder-assigned award code. NULL award ids are
	// common and meaningful: a grant row without an award id can still
	// match by DOI.
	AwardID sql.NullString `json:"award_id" yaml:"award_id"`

	// Provenance fields carried through from the source dump.
	FieldName    string `json:"field_name,omitempty" yaml:"field_name,omitempty"`
	SubfieldPath string `json:"subfield_path,omitempty" yaml:"subfield_path,omitempty"`
	SourceID     string `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	DOIPrefix    string `json:"doi_prefix,omitempty" yaml:"doi_prefix,omitempty"`
	SourceFile   string `json:"source_file_path,omitempty" yaml:"source_file_path,omitempty"`
}

// FunderRecord is one row of a funder-supplied input file. The original
// columns are preserved in Fields so output writers can pass them through
// untouched.
type FunderRecord struct {
	// DOI is lowercased and trimmed at load time. Empty when the row has
	// no DOI; such rows still participate in award-id overlap matching.
	DOI string `json:"doi" yaml:"doi"`

	// AwardID is the award code as supplied by the funder.
	AwardID sql.NullString `json:"award_id" yaml:"award_id"`

	// Fields maps input column name to the raw cell value for the row.
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// MatchType labels how a pair of award identifiers was matched.
type MatchType string

const (
	// MatchExact is raw string equality (after trimming), or two absent ids.
	MatchExact MatchType = "exact"

	// MatchSubstring is containment of one identifier in the other,
	// tested on the raw and then the normalized forms.
	MatchSubstring MatchType = "substring"

	// MatchNormalized is equality after normalization.
	MatchNormalized MatchType = "normalized"

	// MatchFuzzy is a similarity-based match above the configured threshold.
	MatchFuzzy MatchType = "fuzzy"

	// MatchMissing marks a DOI-joined pair where one side has no award id.
	MatchMissing MatchType = "missing"

	// MatchNoMatch marks a DOI-joined pair whose award ids differ.
	MatchNoMatch MatchType = "no_match"

	// MatchNone is the absence of any match.
	MatchNone MatchType = "none"
)

// MatchDecision is the outcome of comparing one pair of award
// identifiers. Never mutated after creation.
type MatchDecision struct {
	Matched bool `json:"matched" yaml:"matched"`

	Type MatchType `json:"match_type" yaml:"match_type"`

	// Similarity is in [0, 1]. Rounded to three decimal places for display.
	Similarity float64 `json:"similarity_score" yaml:"similarity_score"`
}
