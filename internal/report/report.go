// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes reconciliation results to disk: one CSV per
// non-empty category, a statistics file in text and YAML form, an
// optional consolidated Excel workbook, and terminal summaries.
package report

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/reconcile"
)

// ErrWrite wraps any failure to produce an output file.
var ErrWrite = errors.New("writing report output")

// Category keys used in file names, statistics, and workbook sheets.
const (
	CategoryAwardMatched = "funder_work_and_grant_id_match_in_openalex"
	CategoryAwardDiffers = "funder_work_matched_in_openalex_grant_id_differs"
	CategoryNotInGrants  = "funder_grants_not_in_openalex"
	CategoryNotInInput   = "openalex_grants_not_in_funder"
)

// timestampLayout stamps output file names so repeated runs never
// clobber each other.
const timestampLayout = "20060102_150405"

// Report binds one reconciliation run to its output writers.
type Report struct {
	// InputFile is the funder CSV path; its base name prefixes every
	// output file.
	InputFile string

	// Columns is the input header, with the award column already
	// renamed to award_id.
	Columns []string

	Result *reconcile.Result
	Stats  reconcile.Statistics
}

// inputBase is the input file name without directory or extension.
func (r *Report) inputBase() string {
	base := filepath.Base(r.InputFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (r *Report) timestamp(now time.Time) string {
	return now.Format(timestampLayout)
}

// sheet is an in-memory header-plus-rows rendering of one category,
// shared by the CSV and Excel writers.
type sheet struct {
	category string
	header   []string
	rows     [][]string
}

// sheets builds the non-empty category sheets in output order.
func (r *Report) sheets() []sheet {
	var out []sheet
	if t := r.awardMatchedTable(); len(t.rows) > 0 {
		out = append(out, t)
	}
	if t := r.awardDiffersTable(); len(t.rows) > 0 {
		out = append(out, t)
	}
	if t := r.notInGrantsTable(); len(t.rows) > 0 {
		out = append(out, t)
	}
	if t := r.notInInputTable(); len(t.rows) > 0 {
		out = append(out, t)
	}
	return out
}
