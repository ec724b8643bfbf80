// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/grantsdb"
	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/report"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show grants database metadata and statistics",
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().String("db", "", "path to database file (default grants.db, or 'db' in config)")
	infoCmd.Flags().Int("top", 10, "number of top funders to list")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	top, _ := cmd.Flags().GetInt("top")
	path := resolveDBPath(dbPath)

	store, err := grantsdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	fmt.Printf("Database: %s\n", path)
	fmt.Printf("File size: %.2f MB\n\n", float64(info.Size())/(1024*1024))

	ctx := context.Background()

	meta, err := store.Metadata(ctx)
	if err != nil {
		return err
	}
	if len(meta) > 0 {
		fmt.Println("Database Metadata:")
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s: %s\n", k, meta[k])
		}
		fmt.Println()
	}

	stats, err := store.DatabaseStatistics(ctx)
	if err != nil {
		return err
	}
	fmt.Println(stats.Format())

	funders, err := store.TopFunders(ctx, top)
	if err != nil {
		return err
	}
	report.RenderTopFunders(os.Stdout, funders)
	return nil
}
