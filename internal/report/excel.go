// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const statsSheet = "Statistics Summary"

// sheetNames maps category keys to workbook sheet names. Sheet names
// are capped at 31 characters by the xlsx format.
var sheetNames = map[string]string{
	CategoryAwardMatched: "funder_work_and_grant_id_match",
	CategoryAwardDiffers: "funder_work_matched_grant_differs",
	CategoryNotInGrants:  "funder_grants_not_in_openalex",
	CategoryNotInInput:   "openalex_grants_not_in_funder",
}

// WriteExcel writes the consolidated workbook: a statistics summary
// sheet followed by one sheet per non-empty category. Returns the
// workbook path.
func (r *Report) WriteExcel(outputDir string) (string, error) {
	path := filepath.Join(outputDir, r.inputBase()+"_grants_overlap_analysis.xlsx")

	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", statsSheet); err != nil {
		return "", fmt.Errorf("%w: naming statistics sheet: %v", ErrWrite, err)
	}
	if err := r.writeStatsSheet(wb); err != nil {
		return "", err
	}

	for _, t := range r.sheets() {
		name := sheetName(t.category)
		if _, err := wb.NewSheet(name); err != nil {
			return "", fmt.Errorf("%w: creating sheet %s: %v", ErrWrite, name, err)
		}
		if err := writeSheetRows(wb, name, t); err != nil {
			return "", err
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return "", fmt.Errorf("%w: saving %s: %v", ErrWrite, path, err)
	}
	return path, nil
}

func sheetName(category string) string {
	name := sheetNames[category]
	if name == "" {
		name = category
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func writeSheetRows(wb *excelize.File, name string, t sheet) error {
	header := make([]any, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	if err := wb.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("%w: sheet %s header: %v", ErrWrite, name, err)
	}
	for i, row := range t.rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: sheet %s row %d: %v", ErrWrite, name, i+2, err)
		}
		if err := wb.SetSheetRow(name, cell, &cells); err != nil {
			return fmt.Errorf("%w: sheet %s row %d: %v", ErrWrite, name, i+2, err)
		}
	}
	return nil
}

// writeStatsSheet lays the statistics out as metric/value pairs grouped
// under section headings.
func (r *Report) writeStatsSheet(wb *excelize.File) error {
	st := r.Stats
	n := func(v int) string { return strconv.Itoa(v) }

	rows := [][2]string{
		{"RECONCILIATION STATISTICS", ""},
		{"", ""},
		{"Generated", st.Timestamp},
		{"Input File", r.InputFile},
		{"Funder ID", st.FunderID},
		{"", ""},
		{"INPUT FILE STATISTICS", ""},
		{"Total Records", n(st.Input.TotalRecords)},
		{"Records With DOI", n(st.Input.RecordsWithDOI)},
		{"Records Without DOI", n(st.Input.RecordsWithoutDOI)},
		{"Unique DOIs", n(st.Input.UniqueDOIs)},
		{"Unique Award IDs", n(st.Input.UniqueAwardIDs)},
		{"", ""},
		{"OPENALEX GRANTS STATISTICS (for this funder)", ""},
		{"Unique DOIs", n(st.Funder.UniqueDOIs)},
		{"Unique Awards", n(st.Funder.UniqueAwards)},
		{"Total Mappings", n(st.Funder.TotalRecords)},
		{"", ""},
		{"RECONCILIATION RESULTS", ""},
		{CategoryAwardMatched, n(st.Categories.AwardMatched)},
		{CategoryAwardDiffers, n(st.Categories.AwardDiffers)},
		{CategoryNotInGrants, n(st.Categories.NotInGrants)},
		{CategoryNotInInput, n(st.Categories.NotInInput)},
		{"", ""},
		{"MATCH TYPE BREAKDOWN", ""},
		{"Exact Matches", n(st.MatchTypes.Exact)},
		{"Substring Matches", n(st.MatchTypes.Substring)},
		{"Normalized Matches", n(st.MatchTypes.Normalized)},
		{"Fuzzy Matches", n(st.MatchTypes.Fuzzy)},
		{"", ""},
		{"AWARD OVERLAP ANALYSIS (OpenAlex not matched by DOI)", ""},
		{"Total not matched by DOI", n(st.Overlap.TotalNotMatchedByDOI)},
		{"With award ID overlap", n(st.Overlap.WithAwardOverlap)},
		{"Truly missing from input", n(st.Overlap.TrulyMissing)},
	}
	if st.Overlap.WithAwardOverlap > 0 {
		rows = append(rows,
			[2]string{"", ""},
			[2]string{"Overlap Match Types:", ""},
			[2]string{"  exact", n(st.Overlap.MatchTypes.Exact)},
			[2]string{"  substring", n(st.Overlap.MatchTypes.Substring)},
			[2]string{"  normalized", n(st.Overlap.MatchTypes.Normalized)},
			[2]string{"  fuzzy", n(st.Overlap.MatchTypes.Fuzzy)},
		)
	}
	if st.Input.RecordsWithoutDOI > 0 {
		rows = append(rows,
			[2]string{"", ""},
			[2]string{"Note:", fmt.Sprintf("Award overlap includes %d entries without DOIs", st.Input.RecordsWithoutDOI)},
		)
	}
	if st.Percentages != nil {
		rows = append(rows,
			[2]string{"", ""},
			[2]string{"PERCENTAGES (of entries WITH DOIs)", ""},
			[2]string{"Work And Award Matched", fmt.Sprintf("%.2f%%", st.Percentages.WorkAndAwardMatched)},
			[2]string{"Work Matched Award Differs", fmt.Sprintf("%.2f%%", st.Percentages.WorkMatchedAwardDiffers)},
			[2]string{"Records Not In Openalex", fmt.Sprintf("%.2f%%", st.Percentages.RecordsNotInGrants)},
		)
	}

	if err := wb.SetSheetRow(statsSheet, "A1", &[]any{"Metric", "Value"}); err != nil {
		return fmt.Errorf("%w: statistics sheet header: %v", ErrWrite, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: statistics sheet row %d: %v", ErrWrite, i+2, err)
		}
		if err := wb.SetSheetRow(statsSheet, cell, &[]any{row[0], row[1]}); err != nil {
			return fmt.Errorf("%w: statistics sheet row %d: %v", ErrWrite, i+2, err)
		}
	}
	return nil
}
