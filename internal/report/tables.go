// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/grantsdb"
)

// RenderSummary prints the run statistics to w as aligned tables.
func (r *Report) RenderSummary(w io.Writer) {
	st := r.Stats

	fmt.Fprintf(w, "\nReconciliation statistics (funder %s, generated %s)\n",
		st.FunderID, st.Timestamp)

	counts := countTable("Input File Statistics")
	counts.AppendRow(table.Row{"Total records", st.Input.TotalRecords})
	counts.AppendRow(table.Row{"Records with DOI", st.Input.RecordsWithDOI})
	counts.AppendRow(table.Row{"Records without DOI", st.Input.RecordsWithoutDOI})
	counts.AppendRow(table.Row{"Unique DOIs", st.Input.UniqueDOIs})
	counts.AppendRow(table.Row{"Unique award IDs", st.Input.UniqueAwardIDs})
	fmt.Fprintln(w, counts.Render())

	results := countTable("Reconciliation Results")
	results.AppendRow(table.Row{CategoryAwardMatched, st.Categories.AwardMatched})
	results.AppendRow(table.Row{CategoryAwardDiffers, st.Categories.AwardDiffers})
	results.AppendRow(table.Row{CategoryNotInGrants, st.Categories.NotInGrants})
	results.AppendRow(table.Row{CategoryNotInInput, st.Categories.NotInInput})
	fmt.Fprintln(w, results.Render())

	matches := countTable("Match Types")
	matches.AppendRow(table.Row{"exact", st.MatchTypes.Exact})
	matches.AppendRow(table.Row{"substring", st.MatchTypes.Substring})
	matches.AppendRow(table.Row{"normalized", st.MatchTypes.Normalized})
	matches.AppendRow(table.Row{"fuzzy", st.MatchTypes.Fuzzy})
	fmt.Fprintln(w, matches.Render())

	overlap := countTable("Award Overlap (grants not matched by DOI)")
	overlap.AppendRow(table.Row{"Total not matched by DOI", st.Overlap.TotalNotMatchedByDOI})
	overlap.AppendRow(table.Row{"With award ID overlap", st.Overlap.WithAwardOverlap})
	overlap.AppendRow(table.Row{"Truly missing from input", st.Overlap.TrulyMissing})
	fmt.Fprintln(w, overlap.Render())

	if st.Percentages != nil {
		pct := countTable("Percentages (of entries with DOIs)")
		pct.AppendRow(table.Row{"Work and award matched", percent(st.Percentages.WorkAndAwardMatched)})
		pct.AppendRow(table.Row{"Work matched, award differs", percent(st.Percentages.WorkMatchedAwardDiffers)})
		pct.AppendRow(table.Row{"Records not in grants data", percent(st.Percentages.RecordsNotInGrants)})
		fmt.Fprintln(w, pct.Render())
	}
}

// RenderTopFunders prints the info command's funder ranking.
func RenderTopFunders(w io.Writer, funders []grantsdb.FunderCount) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Top Funders by Record Count")
	tw.AppendHeader(table.Row{"Funder", "Records"})
	for _, fc := range funders {
		tw.AppendRow(table.Row{fc.Funder, fc.Count})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	fmt.Fprintln(w, tw.Render())
}

func countTable(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return tw
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
