// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"time"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

// InputStats summarizes the funder-supplied input file.
type InputStats struct {
	TotalRecords      int `json:"total_records" yaml:"total_records"`
	RecordsWithDOI    int `json:"records_with_doi" yaml:"records_with_doi"`
	RecordsWithoutDOI int `json:"records_without_doi" yaml:"records_without_doi"`
	UniqueDOIs        int `json:"unique_dois" yaml:"unique_dois"`
	UniqueAwardIDs    int `json:"unique_award_ids" yaml:"unique_award_ids"`
}

// CategoryCounts holds the size of each reconciliation category.
type CategoryCounts struct {
	AwardMatched int `json:"funder_work_and_grant_id_match_in_openalex" yaml:"funder_work_and_grant_id_match_in_openalex"`
	AwardDiffers int `json:"funder_work_matched_in_openalex_grant_id_differs" yaml:"funder_work_matched_in_openalex_grant_id_differs"`
	NotInGrants  int `json:"funder_grants_not_in_openalex" yaml:"funder_grants_not_in_openalex"`
	NotInInput   int `json:"openalex_grants_not_in_funder" yaml:"openalex_grants_not_in_funder"`
}

// MatchTypeBreakdown counts DOI-joined award matches by match type.
type MatchTypeBreakdown struct {
	Exact      int `json:"exact_matches" yaml:"exact_matches"`
	Substring  int `json:"substring_matches" yaml:"substring_matches"`
	Normalized int `json:"normalized_matches" yaml:"normalized_matches"`
	Fuzzy      int `json:"fuzzy_matches" yaml:"fuzzy_matches"`
}

// OverlapStats analyzes the grants not matched by DOI.
type OverlapStats struct {
	TotalNotMatchedByDOI int `json:"total_not_matched_by_doi" yaml:"total_not_matched_by_doi"`
	WithAwardOverlap     int `json:"with_award_overlap" yaml:"with_award_overlap"`
	TrulyMissing         int `json:"truly_missing" yaml:"truly_missing"`

	MatchTypes MatchTypeBreakdown `json:"overlap_match_types" yaml:"overlap_match_types"`
}

// Percentages expresses the DOI-joined categories as a share of input
// records that carry a DOI. Nil in Statistics when no input record has
// one.
type Percentages struct {
	WorkAndAwardMatched     float64 `json:"pct_work_and_award_matched" yaml:"pct_work_and_award_matched"`
	WorkMatchedAwardDiffers float64 `json:"pct_work_matched_award_differs" yaml:"pct_work_matched_award_differs"`
	RecordsNotInGrants      float64 `json:"pct_records_not_in_openalex" yaml:"pct_records_not_in_openalex"`
}

// Statistics is the full report for one reconciliation run.
type Statistics struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	FunderID  string `json:"funder_id" yaml:"funder_id"`

	Input      InputStats         `json:"input_file_stats" yaml:"input_file_stats"`
	Funder     types.FunderStats  `json:"grants_db_stats" yaml:"grants_db_stats"`
	Categories CategoryCounts     `json:"reconciliation_results" yaml:"reconciliation_results"`
	MatchTypes MatchTypeBreakdown `json:"match_type_breakdown" yaml:"match_type_breakdown"`
	Overlap    OverlapStats       `json:"award_overlap_analysis" yaml:"award_overlap_analysis"`

	Percentages *Percentages `json:"percentages,omitempty" yaml:"percentages,omitempty"`
}

// BuildStatistics assembles the run report from the input records, the
// per-funder database statistics, and the reconciliation result.
func BuildStatistics(input []types.FunderRecord, funderStats types.FunderStats, funderID string, res *Result) Statistics {
	stats := Statistics{
		Timestamp: time.Now().Format(time.RFC3339),
		FunderID:  funderID,
		Funder:    funderStats,
		Categories: CategoryCounts{
			AwardMatched: len(res.AwardMatched),
			AwardDiffers: len(res.AwardDiffers),
			NotInGrants:  len(res.NotInGrants),
			NotInInput:   len(res.NotInInput),
		},
	}

	dois := make(map[string]struct{})
	awards := make(map[string]struct{})
	for _, rec := range input {
		stats.Input.TotalRecords++
		if rec.DOI != "" {
			stats.Input.RecordsWithDOI++
			dois[rec.DOI] = struct{}{}
		} else {
			stats.Input.RecordsWithoutDOI++
		}
		if rec.AwardID.Valid {
			awards[rec.AwardID.String] = struct{}{}
		}
	}
	stats.Input.UniqueDOIs = len(dois)
	stats.Input.UniqueAwardIDs = len(awards)

	for _, m := range res.AwardMatched {
		stats.MatchTypes.count(m.Decision.Type)
	}

	stats.Overlap.TotalNotMatchedByDOI = len(res.NotInInput)
	for _, ug := range res.NotInInput {
		if !ug.HasOverlap {
			continue
		}
		stats.Overlap.WithAwardOverlap++
		stats.Overlap.MatchTypes.count(ug.Decision.Type)
	}
	stats.Overlap.TrulyMissing = stats.Overlap.TotalNotMatchedByDOI - stats.Overlap.WithAwardOverlap

	if stats.Input.RecordsWithDOI > 0 {
		withDOI := float64(stats.Input.RecordsWithDOI)
		stats.Percentages = &Percentages{
			WorkAndAwardMatched:     100 * float64(len(res.AwardMatched)) / withDOI,
			WorkMatchedAwardDiffers: 100 * float64(len(res.AwardDiffers)) / withDOI,
			RecordsNotInGrants:      100 * float64(len(res.NotInGrants)) / withDOI,
		}
	}

	return stats
}

func (b *MatchTypeBreakdown) count(mt types.MatchType) {
	switch mt {
	case types.MatchExact:
		b.Exact++
	case types.MatchSubstring:
		b.Substring++
	case types.MatchNormalized:
		b.Normalized++
	case types.MatchFuzzy:
		b.Fuzzy++
	}
}
