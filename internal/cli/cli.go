//-------------------------------------------------------------------------
//
// TasteTrail ETL
//
// Copyright (c) 2025 - 2026, TasteTrail Data Co.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for tastetrail-etl.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tastetrail/tastetrail-etl/internal/config"
	"github.com/tastetrail/tastetrail-etl/internal/logging"
	"github.com/tastetrail/tastetrail-etl/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "tastetrail-etl",
		Short: "Batch ETL for food delivery order exports",
		Long: `tastetrail-etl ingests raw food delivery order exports (CSV),
cleans and deduplicates them, and loads a star schema into PostgreSQL:
five dimensions (date, location, restaurant, category, dish) and one
fact table of orders.

A reporting battery runs analytical queries over the loaded schema:
order totals, revenue trends, top-N breakdowns and distributions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./tastetrail-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(stagesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the pipeline stages",
	Long: `List the stages an ingest run executes, in order. Every stage
consumes the output of the previous one; the raw set is never mutated.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Pipeline stages, in execution order:")
		cmd.Println()
		cmd.Println("  read       - Parse the CSV export; reject malformed rows")
		cmd.Println("  profile    - Count nulls and blanks per column")
		cmd.Println("  dedup      - Collapse duplicate orders to one survivor")
		cmd.Println("  normalize  - Trim stray whitespace from text fields")
		cmd.Println("  dimensions - Build the five dimensions with surrogate keys")
		cmd.Println("  facts      - Resolve each order against the dimensions")
		cmd.Println("  load       - Bulk-load staging, dimensions and facts")
		cmd.Println()
		cmd.Println("Use 'tastetrail-etl ingest --input <file>' to run them.")
	},
}
