//-------------------------------------------------------------------------
//
// TasteTrail ETL
//
// Copyright (c) 2025 - 2026, TasteTrail Data Co.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for tastetrail-etl.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for tastetrail-etl.
type Config struct {
	// Connection is the PostgreSQL connection string for the warehouse.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Ingest holds configuration for the ingest subcommand.
	Ingest IngestConfig `mapstructure:"ingest"`

	// Report holds configuration for the report subcommand.
	Report ReportConfig `mapstructure:"report"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// IngestConfig holds configuration for a pipeline run.
type IngestConfig struct {
	// Input is the path to the raw order export (CSV).
	Input string `mapstructure:"input"`

	// Delimiter is the field delimiter of the input file.
	Delimiter string `mapstructure:"delimiter"`

	// DropExisting drops all warehouse tables before the run.
	DropExisting bool `mapstructure:"drop_existing"`

	// BatchSize is the number of rows per bulk-load batch.
	BatchSize int `mapstructure:"batch_size"`

	// SkipStaging skips loading the raw rows into the staging table.
	SkipStaging bool `mapstructure:"skip_staging"`
}

// ReportConfig holds configuration for the reporting battery.
type ReportConfig struct {
	// TopN is the row limit for top-N breakdowns (cities, restaurants, dishes).
	TopN int `mapstructure:"top_n"`
}

// SeedConfig holds configuration for sample data generation.
type SeedConfig struct {
	// Output is the path the generated CSV is written to.
	Output string `mapstructure:"output"`

	// Rows is the number of order rows to generate.
	Rows int `mapstructure:"rows"`

	// Seed fixes the random seed for reproducible output (0 = random).
	Seed uint64 `mapstructure:"seed"`

	// DirtyFraction is the fraction of rows mutated into dirty data
	// (duplicates, nulls, stray whitespace). Range 0..1.
	DirtyFraction float64 `mapstructure:"dirty_fraction"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Ingest: IngestConfig{
			Delimiter: ",",
			BatchSize: 1000,
		},
		Report: ReportConfig{
			TopN: 10,
		},
		Seed: SeedConfig{
			Output:        "orders.csv",
			Rows:          10000,
			DirtyFraction: 0.1,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./tastetrail-etl.yaml
// 3. ~/.config/tastetrail-etl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("tastetrail-etl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tastetrail-etl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateIngest checks configuration required for the ingest command.
func (c *Config) ValidateIngest() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Ingest.Input == "" {
		return fmt.Errorf("input file is required for ingest")
	}
	if len([]rune(c.Ingest.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character")
	}
	if c.Ingest.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	return nil
}

// ValidateReport checks configuration required for the report command.
func (c *Config) ValidateReport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Report.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
// Seed does not touch the warehouse, so no connection is needed.
func (c *Config) ValidateSeed() error {
	if c.Seed.Output == "" {
		return fmt.Errorf("output file is required for seed")
	}
	if c.Seed.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Seed.DirtyFraction < 0 || c.Seed.DirtyFraction > 1 {
		return fmt.Errorf("dirty_fraction must be between 0 and 1")
	}
	return nil
}
