package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tastetrail/tastetrail-etl/internal/datagen"
	"github.com/tastetrail/tastetrail-etl/internal/logging"
)

var (
	seedOutput        string
	seedRows          int
	seedSeed          uint64
	seedDirtyFraction float64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a sample raw order export",
	Long: `Generate a CSV file shaped like a raw food delivery order export,
including the dirty data the pipeline is built to handle: duplicate
rows, null tokens and stray whitespace.

Example:
  tastetrail-etl seed --output orders.csv --rows 50000 --seed 42`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedOutput, "output", "",
		"path to write the generated CSV to (default: orders.csv)")
	seedCmd.Flags().IntVar(&seedRows, "rows", 0,
		"number of order rows to generate (default: 10000)")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed for reproducible output (0 = random)")
	seedCmd.Flags().Float64Var(&seedDirtyFraction, "dirty-fraction", -1,
		"fraction of rows mutated into dirty data (default: 0.1)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedOutput != "" {
		cfg.Seed.Output = seedOutput
	}
	if seedRows > 0 {
		cfg.Seed.Rows = seedRows
	}
	if seedSeed != 0 {
		cfg.Seed.Seed = seedSeed
	}
	if seedDirtyFraction >= 0 {
		cfg.Seed.DirtyFraction = seedDirtyFraction
	}

	// Validate configuration
	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	logging.Info().
		Str("output", cfg.Seed.Output).
		Int("rows", cfg.Seed.Rows).
		Float64("dirty_fraction", cfg.Seed.DirtyFraction).
		Msg("Generating sample export")

	f, err := os.Create(cfg.Seed.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	seeder := datagen.NewSeeder(datagen.SeedOptions{
		Rows:          cfg.Seed.Rows,
		Seed:          cfg.Seed.Seed,
		DirtyFraction: cfg.Seed.DirtyFraction,
	})
	if err := seeder.Write(f); err != nil {
		return fmt.Errorf("failed to write sample export: %w", err)
	}

	logging.Info().
		Str("output", cfg.Seed.Output).
		Msg("Sample export written")

	return nil
}
