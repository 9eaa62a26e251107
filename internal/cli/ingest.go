package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tastetrail/tastetrail-etl/internal/db"
	"github.com/tastetrail/tastetrail-etl/internal/logging"
	"github.com/tastetrail/tastetrail-etl/internal/pipeline"
	"github.com/tastetrail/tastetrail-etl/internal/warehouse"
)

var (
	ingestInput        string
	ingestDelimiter    string
	ingestDropExisting bool
	ingestBatchSize    int
	ingestSkipStaging  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the full pipeline over a raw order export",
	Long: `Run the full ETL pipeline: parse the CSV export, profile and
deduplicate it, build the star schema in memory and bulk-load it into
PostgreSQL. The warehouse tables are created if they do not exist.

Example:
  tastetrail-etl ingest --input orders.csv --connection "postgres://..."`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestInput, "input", "",
		"path to the raw order export (CSV)")
	ingestCmd.Flags().StringVar(&ingestDelimiter, "delimiter", "",
		"field delimiter of the input file (default: ,)")
	ingestCmd.Flags().BoolVar(&ingestDropExisting, "drop-existing", false,
		"drop existing warehouse tables before loading")
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0,
		"rows per bulk-load batch (default: 1000)")
	ingestCmd.Flags().BoolVar(&ingestSkipStaging, "skip-staging", false,
		"do not load the raw rows into the staging table")
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if ingestInput != "" {
		cfg.Ingest.Input = ingestInput
	}
	if ingestDelimiter != "" {
		cfg.Ingest.Delimiter = ingestDelimiter
	}
	if ingestDropExisting {
		cfg.Ingest.DropExisting = true
	}
	if ingestBatchSize > 0 {
		cfg.Ingest.BatchSize = ingestBatchSize
	}
	if ingestSkipStaging {
		cfg.Ingest.SkipStaging = true
	}

	// Validate configuration
	if err := cfg.ValidateIngest(); err != nil {
		return err
	}

	logging.Info().
		Str("input", cfg.Ingest.Input).
		Msg("Starting ingest")

	// Run the in-memory pipeline before touching the warehouse, so a
	// bad input file never leaves the schema half-loaded.
	f, err := os.Open(cfg.Ingest.Input)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	result, err := pipeline.Run(f, []rune(cfg.Ingest.Delimiter)[0])
	f.Close()
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	for _, rej := range result.Rejects {
		logging.Warn().
			Int("line", rej.Line).
			Str("reason", rej.Reason).
			Msg("Rejected row")
	}

	logging.Info().
		Int("rows_read", result.Stats.RowsRead).
		Int("rows_rejected", result.Stats.RowsRejected).
		Int("duplicates_removed", result.Stats.DuplicatesRemoved).
		Int("clean_rows", result.Stats.CleanCount).
		Int("fact_rows", result.Stats.Facts.Built).
		Int("facts_dropped", result.Stats.Facts.Dropped()).
		Msg("Pipeline complete")

	// Connect to database
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Drop existing schema if requested
	if cfg.Ingest.DropExisting {
		logging.Info().Msg("Dropping existing schema")
		if err := warehouse.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	// Create schema
	logging.Info().Msg("Creating schema")
	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Load
	loader := warehouse.NewLoader(pool, cfg.Ingest.BatchSize)
	if err := loader.LoadAll(ctx, result, cfg.Ingest.SkipStaging); err != nil {
		return fmt.Errorf("failed to load warehouse: %w", err)
	}

	// Save run metadata
	info := db.RunInfo{
		SourceFile:   cfg.Ingest.Input,
		RowsRead:     result.Stats.RowsRead,
		RowsRejected: result.Stats.RowsRejected,
		RowsCleaned:  result.Stats.CleanCount,
		FactRows:     result.Stats.Facts.Built,
	}
	if err := db.SaveRunInfo(ctx, pool, info); err != nil {
		return fmt.Errorf("failed to save run metadata: %w", err)
	}

	logging.Info().
		Str("input", cfg.Ingest.Input).
		Int("fact_rows", result.Stats.Facts.Built).
		Msg("Ingest complete")

	return nil
}
