// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/reconcile"
	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

// awardColumn is the canonical award column in loaded inputs.
const awardColumn = "award_id"

// matchColumns are appended to the input columns for the DOI-joined
// categories.
var matchColumns = []string{
	"funder_award_id", "openalex_award_id", "work_id", "match_type", "similarity_score",
}

// WriteCSVs writes one CSV per non-empty category into outputDir,
// creating it if needed. File names carry the input base name, the
// category, and a run timestamp. Progress lines go to w. Returns the
// written paths keyed by category.
func (r *Report) WriteCSVs(outputDir string, now time.Time, w io.Writer) (map[string]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating output directory %s: %v", ErrWrite, outputDir, err)
	}

	fmt.Fprintln(w, "\nReconciliation Results:")
	written := make(map[string]string)
	for _, t := range r.sheets() {
		name := fmt.Sprintf("%s_%s_%s.csv", r.inputBase(), t.category, r.timestamp(now))
		path := filepath.Join(outputDir, name)
		if err := writeCSV(path, t); err != nil {
			return nil, err
		}
		written[t.category] = path
		fmt.Fprintf(w, "  %s: %d records -> %s\n", t.category, len(t.rows), path)
	}
	return written, nil
}

func writeCSV(path string, t sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrWrite, path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	for _, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return f.Close()
}

// awardMatchedTable renders the DOI-joined matching pairs. The award_id
// input column is dropped here: it reappears as funder_award_id next to
// the grants-side value.
func (r *Report) awardMatchedTable() sheet {
	t := sheet{
		category: CategoryAwardMatched,
		header:   append(withoutColumn(r.Columns, awardColumn), matchColumns...),
	}
	for _, m := range r.Result.AwardMatched {
		row := fieldValues(m.Input, withoutColumn(r.Columns, awardColumn))
		t.rows = append(t.rows, append(row, decisionValues(m)...))
	}
	return t
}

// awardDiffersTable renders DOI-joined pairs whose award ids differ.
// All input columns are kept.
func (r *Report) awardDiffersTable() sheet {
	t := sheet{
		category: CategoryAwardDiffers,
		header:   append(append([]string{}, r.Columns...), matchColumns...),
	}
	for _, m := range r.Result.AwardDiffers {
		row := fieldValues(m.Input, r.Columns)
		t.rows = append(t.rows, append(row, decisionValues(m)...))
	}
	return t
}

func (r *Report) notInGrantsTable() sheet {
	t := sheet{
		category: CategoryNotInGrants,
		header:   append(append([]string{}, r.Columns...), "work_id"),
	}
	for _, u := range r.Result.NotInGrants {
		row := fieldValues(u.Input, r.Columns)
		t.rows = append(t.rows, append(row, u.WorkID))
	}
	return t
}

func (r *Report) notInInputTable() sheet {
	t := sheet{
		category: CategoryNotInInput,
		header: []string{
			"work_id", "doi", "award_id",
			"matching_input_award_id", "has_award_overlap", "match_type", "similarity_score",
		},
	}
	for _, ug := range r.Result.NotInInput {
		matchType, score := "", ""
		if ug.HasOverlap {
			matchType = string(ug.Decision.Type)
			score = formatScore(ug.Decision.Similarity)
		}
		t.rows = append(t.rows, []string{
			ug.Grant.WorkID, ug.Grant.DOI, nullText(ug.Grant.AwardID),
			ug.MatchingAwardID, strconv.FormatBool(ug.HasOverlap), matchType, score,
		})
	}
	return t
}

func decisionValues(m reconcile.DOIMatch) []string {
	return []string{
		nullText(m.Input.AwardID),
		nullText(m.Grant.AwardID),
		m.Grant.WorkID,
		string(m.Decision.Type),
		formatScore(m.Decision.Similarity),
	}
}

// fieldValues renders an input record under the given columns, in order.
func fieldValues(rec types.FunderRecord, columns []string) []string {
	row := make([]string, len(columns))
	for i, name := range columns {
		row[i] = rec.Fields[name]
	}
	return row
}

func withoutColumn(columns []string, drop string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}

func nullText(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 3, 64)
}
