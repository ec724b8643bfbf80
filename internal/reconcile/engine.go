// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile partitions funder-supplied records and grants
// database records into reconciliation categories: joined by DOI with a
// matching award id, joined by DOI with a differing award id, funder
// records absent from the grants data, and grants absent from the funder
// data (split by whether an award-id overlap exists).
//
// The award-overlap pass runs over an inverted segment index instead of
// the full cross product, so its cost is governed by segment selectivity
// rather than by input size times grants size. The pass is restricted to
// substring and normalized matching; fuzzy matching is excluded there to
// bound false positives at scale.
package reconcile

import (
	"database/sql"
	"fmt"
	"io"
	"math"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/awardid"
	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

// progressInterval is how many grants-side identifiers are processed
// between progress lines.
const progressInterval = 1000

// DOIMatch is a funder record joined to a grant record by DOI,
// annotated with the award-id decision. Used for both the award-matched
// and award-differs categories.
type DOIMatch struct {
	Input    types.FunderRecord
	Grant    types.GrantRecord
	Decision types.MatchDecision
}

// UnmatchedInput is a funder record whose DOI has no grant for the
// requested funder. WorkID names a work sharing the DOI under any
// funder, when one exists.
type UnmatchedInput struct {
	Input  types.FunderRecord
	WorkID string
}

// UnmatchedGrant is a grant whose DOI is absent from the funder input,
// annotated with any award-id overlap found by the index pass.
type UnmatchedGrant struct {
	Grant types.GrantRecord

	// MatchingAwardID is the input-side award the grant's award
	// overlaps with; empty when HasOverlap is false.
	MatchingAwardID string
	HasOverlap      bool

	// Decision is set only when HasOverlap is true.
	Decision types.MatchDecision
}

// Result holds the four reconciliation categories for one pass.
type Result struct {
	// AwardMatched: DOI joined and award ids match.
	AwardMatched []DOIMatch

	// AwardDiffers: DOI joined but award ids differ (or one is missing).
	AwardDiffers []DOIMatch

	// NotInGrants: funder records with a DOI the grants data lacks for
	// this funder.
	NotInGrants []UnmatchedInput

	// NotInInput: grants whose DOI the funder input lacks.
	NotInInput []UnmatchedGrant

	// Comparisons counts classifier invocations during the index-driven
	// overlap pass. With selective segments it stays far below the full
	// cross product.
	Comparisons int

	// OverlapMatched counts grants-side identifiers resolved by the
	// index pass.
	OverlapMatched int
}

// Reconcile runs one matching pass. input and grants are immutable
// record sets; workIDByDOI resolves DOIs of unmatched funder records to
// a work under any funder. Progress for the long-running overlap pass is
// written to w. The pass is synchronous and runs to completion.
func Reconcile(input []types.FunderRecord, grants []types.GrantRecord, workIDByDOI map[string]string, cfg types.MatcherConfig, w io.Writer) *Result {
	res := &Result{}

	grantsByDOI := make(map[string][]int)
	for i, g := range grants {
		if g.DOI != "" {
			grantsByDOI[g.DOI] = append(grantsByDOI[g.DOI], i)
		}
	}

	inputDOIs := make(map[string]struct{})
	for _, rec := range input {
		if rec.DOI != "" {
			inputDOIs[rec.DOI] = struct{}{}
		}
	}

	// DOI join: categories (a), (b), and (c).
	for _, rec := range input {
		if rec.DOI == "" {
			continue
		}
		indices := grantsByDOI[rec.DOI]
		if len(indices) == 0 {
			res.NotInGrants = append(res.NotInGrants, UnmatchedInput{
				Input:  rec,
				WorkID: workIDByDOI[rec.DOI],
			})
			continue
		}

		// The same work/award pair can appear once per source file in
		// the grants data; emit it once per input record.
		type pairKey struct {
			workID string
			award  sql.NullString
		}
		seen := make(map[pairKey]struct{})

		for _, gi := range indices {
			g := grants[gi]
			key := pairKey{g.WorkID, g.AwardID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			a := fromNull(rec.AwardID)
			b := fromNull(g.AwardID)
			matched, mt := awardid.Classify(a, b, cfg)
			decision := types.MatchDecision{
				Matched:    matched,
				Type:       mt,
				Similarity: round3(awardid.Similarity(a, b, cfg)),
			}
			if matched {
				res.AwardMatched = append(res.AwardMatched, DOIMatch{rec, g, decision})
				continue
			}
			decision.Type = types.MatchNoMatch
			if !a.Present || !b.Present {
				decision.Type = types.MatchMissing
			}
			res.AwardDiffers = append(res.AwardDiffers, DOIMatch{rec, g, decision})
		}
	}

	// Award-overlap pass: category (d).
	matches := matchByIndex(input, grants, cfg, res, w)

	seenGrant := make(map[string]struct{})
	for _, g := range grants {
		if !g.AwardID.Valid {
			continue
		}
		if _, ok := inputDOIs[g.DOI]; ok {
			continue
		}
		key := g.WorkID + "\x00" + g.DOI + "\x00" + g.AwardID.String
		if _, dup := seenGrant[key]; dup {
			continue
		}
		seenGrant[key] = struct{}{}

		ug := UnmatchedGrant{Grant: g}
		if cand, ok := matches[g.AwardID.String]; ok {
			ug.HasOverlap = true
			ug.MatchingAwardID = cand
			a := awardid.New(g.AwardID.String)
			b := awardid.New(cand)
			matched, mt := awardid.Classify(a, b, cfg)
			ug.Decision = types.MatchDecision{
				Matched:    matched,
				Type:       mt,
				Similarity: round3(awardid.Similarity(a, b, cfg)),
			}
		}
		res.NotInInput = append(res.NotInInput, ug)
	}

	return res
}

// matchByIndex resolves every unique grants-side award against the
// funder input through the segment index. Input awards from records with
// and without DOIs are both indexed. Matching stops at the first
// candidate that passes; only substring and normalized matching are
// consulted.
func matchByIndex(input []types.FunderRecord, grants []types.GrantRecord, cfg types.MatcherConfig, res *Result, w io.Writer) map[string]string {
	fmt.Fprintln(w, "Building inverted index for award id matching...")

	idx := NewIndex()
	indexed := make(map[string]struct{})
	for _, rec := range input {
		if !rec.AwardID.Valid {
			continue
		}
		if _, dup := indexed[rec.AwardID.String]; dup {
			continue
		}
		indexed[rec.AwardID.String] = struct{}{}
		idx.Add(rec.AwardID.String)
	}

	var oaAwards []string
	seenAward := make(map[string]struct{})
	for _, g := range grants {
		if !g.AwardID.Valid {
			continue
		}
		if _, dup := seenAward[g.AwardID.String]; dup {
			continue
		}
		seenAward[g.AwardID.String] = struct{}{}
		oaAwards = append(oaAwards, g.AwardID.String)
	}

	fmt.Fprintf(w, "Matching %d grants-side awards against %d input awards...\n",
		len(oaAwards), len(indexed))

	indexCfg := cfg
	indexCfg.MatchTypes = []types.MatchType{types.MatchSubstring, types.MatchNormalized}

	matches := make(map[string]string)
	for i, award := range oaAwards {
		if (i+1)%progressInterval == 0 {
			fmt.Fprintf(w, "  processed %d/%d...\n", i+1, len(oaAwards))
		}
		for _, cand := range idx.Candidates(award) {
			res.Comparisons++
			if ok, _ := awardid.Classify(awardid.New(award), awardid.New(cand), indexCfg); ok {
				matches[award] = cand
				break
			}
		}
	}

	res.OverlapMatched = len(matches)
	fmt.Fprintf(w, "Found %d grants-side awards with matches in input\n", len(matches))
	return matches
}

func fromNull(ns sql.NullString) awardid.ID {
	if !ns.Valid {
		return awardid.ID{}
	}
	return awardid.New(ns.String)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
