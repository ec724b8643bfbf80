// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// WriteStatsFiles writes the run statistics next to the category CSVs,
// once as a plain text report and once as YAML. Returns the two paths.
func (r *Report) WriteStatsFiles(outputDir string, now time.Time) (txtPath, yamlPath string, err error) {
	base := fmt.Sprintf("reconciliation_stats_%s_%s", r.inputBase(), r.timestamp(now))
	txtPath = filepath.Join(outputDir, base+".txt")
	yamlPath = filepath.Join(outputDir, base+".yaml")

	f, err := os.Create(txtPath)
	if err != nil {
		return "", "", fmt.Errorf("%w: creating %s: %v", ErrWrite, txtPath, err)
	}
	r.writeStatsText(f)
	if err := f.Close(); err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrWrite, txtPath, err)
	}

	data, err := yaml.Marshal(&r.Stats)
	if err != nil {
		return "", "", fmt.Errorf("%w: encoding statistics: %v", ErrWrite, err)
	}
	if err := os.WriteFile(yamlPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrWrite, yamlPath, err)
	}
	return txtPath, yamlPath, nil
}

func (r *Report) writeStatsText(w io.Writer) {
	st := r.Stats
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(w, "GRANT RECONCILIATION STATISTICS")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Generated: %s\n", st.Timestamp)
	fmt.Fprintf(w, "Input file: %s\n", r.InputFile)
	fmt.Fprintf(w, "Funder ID: %s\n\n", st.FunderID)

	fmt.Fprintln(w, "Input File Statistics:")
	fmt.Fprintf(w, "  total_records: %d\n", st.Input.TotalRecords)
	fmt.Fprintf(w, "  records_with_doi: %d\n", st.Input.RecordsWithDOI)
	fmt.Fprintf(w, "  records_without_doi: %d\n", st.Input.RecordsWithoutDOI)
	fmt.Fprintf(w, "  unique_dois: %d\n", st.Input.UniqueDOIs)
	fmt.Fprintf(w, "  unique_award_ids: %d\n\n", st.Input.UniqueAwardIDs)

	fmt.Fprintln(w, "Grants Database Statistics (for this funder):")
	fmt.Fprintf(w, "  funder_unique_dois: %d\n", st.Funder.UniqueDOIs)
	fmt.Fprintf(w, "  funder_unique_awards: %d\n", st.Funder.UniqueAwards)
	fmt.Fprintf(w, "  funder_total_mappings: %d\n\n", st.Funder.TotalRecords)

	fmt.Fprintln(w, "Reconciliation Results:")
	fmt.Fprintf(w, "  %s: %d\n", CategoryAwardMatched, st.Categories.AwardMatched)
	fmt.Fprintf(w, "  %s: %d\n", CategoryAwardDiffers, st.Categories.AwardDiffers)
	fmt.Fprintf(w, "  %s: %d\n", CategoryNotInGrants, st.Categories.NotInGrants)
	fmt.Fprintf(w, "  %s: %d\n\n", CategoryNotInInput, st.Categories.NotInInput)

	fmt.Fprintln(w, "Match Type Breakdown (for work and grant ID matches):")
	fmt.Fprintf(w, "  exact_matches: %d\n", st.MatchTypes.Exact)
	fmt.Fprintf(w, "  substring_matches: %d\n", st.MatchTypes.Substring)
	fmt.Fprintf(w, "  normalized_matches: %d\n", st.MatchTypes.Normalized)
	fmt.Fprintf(w, "  fuzzy_matches: %d\n\n", st.MatchTypes.Fuzzy)

	fmt.Fprintln(w, "Award Overlap Analysis (OpenAlex grants not matched by DOI):")
	fmt.Fprintf(w, "  Total not matched by DOI: %d\n", st.Overlap.TotalNotMatchedByDOI)
	fmt.Fprintf(w, "  With award ID overlap: %d\n", st.Overlap.WithAwardOverlap)
	fmt.Fprintf(w, "  Truly missing from input: %d\n", st.Overlap.TrulyMissing)
	if st.Overlap.WithAwardOverlap > 0 {
		fmt.Fprintln(w, "\n  Overlap match types:")
		fmt.Fprintf(w, "    exact: %d\n", st.Overlap.MatchTypes.Exact)
		fmt.Fprintf(w, "    substring: %d\n", st.Overlap.MatchTypes.Substring)
		fmt.Fprintf(w, "    normalized: %d\n", st.Overlap.MatchTypes.Normalized)
		fmt.Fprintf(w, "    fuzzy: %d\n", st.Overlap.MatchTypes.Fuzzy)
	}

	if st.Percentages != nil {
		fmt.Fprintln(w, "\nPercentages (of entries WITH DOIs):")
		fmt.Fprintf(w, "  pct_work_and_award_matched: %.2f%%\n", st.Percentages.WorkAndAwardMatched)
		fmt.Fprintf(w, "  pct_work_matched_award_differs: %.2f%%\n", st.Percentages.WorkMatchedAwardDiffers)
		fmt.Fprintf(w, "  pct_records_not_in_openalex: %.2f%%\n", st.Percentages.RecordsNotInGrants)
	}
}
