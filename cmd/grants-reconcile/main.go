// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the grants-reconcile CLI. It
// builds a local grants database from an OpenAlex grants dump and
// reconciles funder-supplied award data against it.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the grants-reconcile CLI.
var rootCmd = &cobra.Command{
	Use:   "grants-reconcile",
	Short: "Reconcile funder award data against OpenAlex grants",
	Long: `grants-reconcile compares funder-supplied funding records with grant
metadata from OpenAlex. It builds a local SQLite database from a grants
CSV dump, then matches input records by DOI and award identifier,
classifying every record into reconciliation categories with CSV and
statistics output.

Each stage is a subcommand: build creates the database, query runs a
reconciliation, info inspects an existing database.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./grants-reconcile.yaml or ~/.config/grants-reconcile/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("grants-reconcile")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "grants-reconcile"))
		}
	}

	viper.SetEnvPrefix("GRANTS_RECONCILE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configDefault returns value unless it is empty, falling back to the
// config file / environment setting for key.
func configDefault(value, key string) string {
	if value != "" {
		return value
	}
	return viper.GetString(key)
}

// resolveDBPath applies the flag > config > built-in default chain for
// the database path.
func resolveDBPath(flagValue string) string {
	if path := configDefault(flagValue, "db"); path != "" {
		return path
	}
	return "grants.db"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
