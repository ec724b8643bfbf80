// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/grantsdb"
	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/ingest"
	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/reconcile"
	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/report"
	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Reconcile a funder CSV against the grants database",
	Long: `Query loads a funder-supplied funding CSV, matches it against one
funder's grants in the database, and writes one CSV per reconciliation
category plus a statistics report. Records join by DOI first; award
identifiers are then compared exactly, by containment, after
normalization, and fuzzily. Grants the input lacks are checked for
award-id overlap through an inverted segment index.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("db", "", "path to existing database file (default grants.db, or 'db' in config)")
	queryCmd.Flags().StringP("input-file", "i", "", "path to input funding CSV file (required)")
	queryCmd.Flags().StringP("funder-id", "f", "", "OpenAlex funder ID to match, e.g. https://openalex.org/F4320306577 (required)")
	queryCmd.Flags().StringP("award-field", "a", "award_id", "column name for award ID in input file")
	queryCmd.Flags().StringP("output-dir", "o", "", "directory for output files (default output, or 'output_dir' in config)")
	queryCmd.Flags().BoolP("excel", "e", false, "also write a consolidated Excel workbook")
	queryCmd.Flags().Float64("fuzzy-threshold", 0.90, "minimum similarity for a fuzzy match")
	queryCmd.Flags().Int("segment-tolerance", 2, "maximum segment-count difference for structural comparison")
	queryCmd.Flags().Float64("structured-cutoff", 0.75, "minimum aligned-segment confidence for a structural match")
	queryCmd.Flags().StringSlice("match-types", []string{"substring", "normalized", "fuzzy"}, "match types to apply beyond exact")
	queryCmd.MarkFlagRequired("input-file")
	queryCmd.MarkFlagRequired("funder-id")

	rootCmd.AddCommand(queryCmd)
}

func queryConfigFromFlags(cmd *cobra.Command) types.QueryConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	inputFile, _ := cmd.Flags().GetString("input-file")
	funderID, _ := cmd.Flags().GetString("funder-id")
	awardField, _ := cmd.Flags().GetString("award-field")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	excel, _ := cmd.Flags().GetBool("excel")
	threshold, _ := cmd.Flags().GetFloat64("fuzzy-threshold")
	tolerance, _ := cmd.Flags().GetInt("segment-tolerance")
	cutoff, _ := cmd.Flags().GetFloat64("structured-cutoff")
	matchTypes, _ := cmd.Flags().GetStringSlice("match-types")

	matcher := types.DefaultMatcherConfig()
	matcher.FuzzyThreshold = threshold
	matcher.SegmentTolerance = tolerance
	matcher.StructuredCutoff = cutoff
	matcher.MatchTypes = matcher.MatchTypes[:0]
	for _, mt := range matchTypes {
		matcher.MatchTypes = append(matcher.MatchTypes, types.MatchType(mt))
	}

	if outputDir = configDefault(outputDir, "output_dir"); outputDir == "" {
		outputDir = "output"
	}

	return types.QueryConfig{
		DBPath:     resolveDBPath(dbPath),
		InputFile:  inputFile,
		FunderID:   funderID,
		AwardField: awardField,
		OutputDir:  outputDir,
		Excel:      excel,
		Matcher:    matcher,
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := queryConfigFromFlags(cmd)
	ctx := context.Background()

	in, err := ingest.LoadFunderCSV(cfg.InputFile, cfg.AwardField)
	if err != nil {
		return err
	}
	withDOI := 0
	for _, rec := range in.Records {
		if rec.DOI != "" {
			withDOI++
		}
	}
	fmt.Printf("Loaded %d input records from %s\n", len(in.Records), cfg.InputFile)
	fmt.Printf("  - Records with DOI: %d\n", withDOI)
	fmt.Printf("  - Records without DOI: %d\n", len(in.Records)-withDOI)

	store, err := grantsdb.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	funderStats, err := store.FunderStatistics(ctx, cfg.FunderID)
	if err != nil {
		return err
	}
	if funderStats.TotalRecords == 0 {
		fmt.Printf("Warning: no grants found for funder %s\n", cfg.FunderID)
	} else {
		fmt.Printf("Found %d records for funder %s\n", funderStats.TotalRecords, cfg.FunderID)
		fmt.Printf("  Unique DOIs: %d\n", funderStats.UniqueDOIs)
		fmt.Printf("  Unique awards: %d\n", funderStats.UniqueAwards)
	}

	fmt.Println("\nPerforming reconciliation...")
	grants, err := store.GrantsForFunder(ctx, cfg.FunderID)
	if err != nil {
		return err
	}

	workIDByDOI, err := lookupWorkIDs(ctx, store, in.Records, grants)
	if err != nil {
		return err
	}

	res := reconcile.Reconcile(in.Records, grants, workIDByDOI, cfg.Matcher, os.Stdout)

	rep := &report.Report{
		InputFile: cfg.InputFile,
		Columns:   in.Columns,
		Result:    res,
		Stats:     reconcile.BuildStatistics(in.Records, funderStats, cfg.FunderID, res),
	}

	now := time.Now()
	if _, err := rep.WriteCSVs(cfg.OutputDir, now, os.Stdout); err != nil {
		return err
	}
	txtPath, yamlPath, err := rep.WriteStatsFiles(cfg.OutputDir, now)
	if err != nil {
		return err
	}

	rep.RenderSummary(os.Stdout)
	fmt.Printf("Statistics saved to %s and %s\n", txtPath, yamlPath)

	if cfg.Excel {
		excelPath, err := rep.WriteExcel(cfg.OutputDir)
		if err != nil {
			return err
		}
		fmt.Printf("\nExcel report created: %s\n", excelPath)
	}

	fmt.Printf("\nReconciliation complete! Results saved to %s\n", cfg.OutputDir)
	return nil
}

// lookupWorkIDs resolves works for input DOIs that have no grant under
// the requested funder, so the not-in-grants output can still point at
// the OpenAlex work.
func lookupWorkIDs(ctx context.Context, store *grantsdb.Store, input []types.FunderRecord, grants []types.GrantRecord) (map[string]string, error) {
	funderDOIs := make(map[string]struct{}, len(grants))
	for _, g := range grants {
		if g.DOI != "" {
			funderDOIs[g.DOI] = struct{}{}
		}
	}

	var missing []string
	seen := make(map[string]struct{})
	for _, rec := range input {
		if rec.DOI == "" {
			continue
		}
		if _, ok := funderDOIs[rec.DOI]; ok {
			continue
		}
		if _, dup := seen[rec.DOI]; dup {
			continue
		}
		seen[rec.DOI] = struct{}{}
		missing = append(missing, rec.DOI)
	}
	if len(missing) == 0 {
		return map[string]string{}, nil
	}
	return store.WorkIDsForDOIs(ctx, missing)
}
