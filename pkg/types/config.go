// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatcherConfig holds the tunable thresholds for award-identifier
// matching. Values are passed explicitly into the matching entry points
// rather than read from package state, so independent reconciliation
// passes can run with different strictness.
type MatcherConfig struct {
	// MatchTypes is the enabled subset of {substring, normalized, fuzzy}.
	// Exact matching is always on.
	MatchTypes []MatchType `json:"match_types" yaml:"match_types"`

	// FuzzyThreshold is the minimum sequence-similarity ratio for a
	// fuzzy match on non-structured identifiers (default 0.90).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`

	// SegmentTolerance is the maximum segment-count difference for
	// structural comparison to proceed (default 2).
	SegmentTolerance int `json:"segment_tolerance" yaml:"segment_tolerance"`

	// StructuredCutoff is the minimum aligned-segment confidence for a
	// structural match (default 0.75).
	StructuredCutoff float64 `json:"structured_cutoff" yaml:"structured_cutoff"`
}

// DefaultMatcherConfig returns the thresholds the reconciliation was
// tuned with.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		MatchTypes:       []MatchType{MatchSubstring, MatchNormalized, MatchFuzzy},
		FuzzyThreshold:   0.90,
		SegmentTolerance: 2,
		StructuredCutoff: 0.75,
	}
}

// Enabled reports whether mt is in the enabled match-type subset.
func (c MatcherConfig) Enabled(mt MatchType) bool {
	for _, t := range c.MatchTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// BuildConfig holds settings for building the grants database from a
// grants CSV dump.
type BuildConfig struct {
	// GrantsCSV is the path to the source grants.csv file.
	GrantsCSV string `json:"grants_csv" yaml:"grants_csv"`

	// DBPath is the output database file (default "grants.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// ChunkSize is the number of rows per insert transaction (default 100000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// Force overwrites an existing database without prompting.
	Force bool `json:"force" yaml:"force"`
}

// QueryConfig holds settings for a reconciliation run against an
// existing grants database.
type QueryConfig struct {
	// DBPath is the grants database to query.
	DBPath string `json:"db_path" yaml:"db_path"`

	// InputFile is the funder-supplied CSV to reconcile.
	InputFile string `json:"input_file" yaml:"input_file"`

	// FunderID is the OpenAlex funder to match against
	// (e.g. "https://openalex.org/F4320306577").
	FunderID string `json:"funder_id" yaml:"funder_id"`

	// AwardField is the input column holding award ids (default "award_id").
	AwardField string `json:"award_field" yaml:"award_field"`

	// OutputDir receives the category CSVs and statistics (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Excel additionally writes a consolidated workbook.
	Excel bool `json:"excel" yaml:"excel"`

	Matcher MatcherConfig `json:"matcher" yaml:"matcher"`
}
