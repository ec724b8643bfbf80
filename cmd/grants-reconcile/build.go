// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adambuttrick/openalex-grants-overlap-analysis/internal/grantsdb"
	"github.com/adambuttrick/openalex-grants-overlap-analysis/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the grants database from a grants CSV dump",
	Long: `Build streams an OpenAlex grants CSV into a SQLite database. Each
row's JSON value is parsed for its funder and award id; rows that fail
to parse are kept with empty funder information so totals stay honest.
Indexes and build metadata are written after loading.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("grants-csv", "g", "", "path to grants.csv file (required)")
	buildCmd.Flags().StringP("db-output", "d", "", "output database file path (default grants.db, or 'db' in config)")
	buildCmd.Flags().IntP("chunk-size", "c", 100000, "rows per insert transaction")
	buildCmd.Flags().BoolP("force", "f", false, "overwrite an existing database")
	buildCmd.MarkFlagRequired("grants-csv")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	grantsCSV, _ := cmd.Flags().GetString("grants-csv")
	dbPath, _ := cmd.Flags().GetString("db-output")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	force, _ := cmd.Flags().GetBool("force")

	cfg := types.BuildConfig{
		GrantsCSV: grantsCSV,
		DBPath:    resolveDBPath(dbPath),
		ChunkSize: chunkSize,
		Force:     force,
	}

	store, err := grantsdb.Create(cfg.DBPath, cfg.Force)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Build(ctx, cfg, os.Stdout); err != nil {
		return err
	}
	if err := store.Verify(ctx); err != nil {
		return fmt.Errorf("database verification failed: %w", err)
	}

	info, err := os.Stat(cfg.DBPath)
	if err != nil {
		return err
	}
	fmt.Printf("\nDatabase built successfully: %s\n", cfg.DBPath)
	fmt.Printf("  File size: %.2f MB\n", float64(info.Size())/(1024*1024))
	return nil
}
