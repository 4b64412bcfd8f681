//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-salesmetrics.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Table sources.
const (
	SourceLocal    = "local"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config holds all configuration for pgedge-salesmetrics.
type Config struct {
	// DataPath is the directory (or S3 prefix) holding the CSV tables.
	DataPath string `mapstructure:"data_path"`

	// Source selects where tables are read from: local, s3 or postgres.
	Source string `mapstructure:"source"`

	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogJSON switches console logging to JSON lines.
	LogJSON bool `mapstructure:"log_json"`

	// Analysis holds the year pair and status filter.
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// S3 holds the bucket settings for the s3 source.
	S3 S3Config `mapstructure:"s3"`

	// Report holds output settings for summary and report.
	Report ReportConfig `mapstructure:"report"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`
}

// AnalysisConfig holds the metrics inputs.
type AnalysisConfig struct {
	// AnalysisYear is the year being analyzed.
	AnalysisYear int `mapstructure:"analysis_year"`

	// ComparisonYear is the baseline year.
	ComparisonYear int `mapstructure:"comparison_year"`

	// StatusFilter is the order status counted as a sale.
	StatusFilter string `mapstructure:"status_filter"`
}

// S3Config holds S3 bucket settings. Credentials come from the AWS SDK
// default chain.
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

// ReportConfig holds output settings.
type ReportConfig struct {
	// Format is the report format (table, json, csv, xlsx).
	Format string `mapstructure:"format"`

	// Output is the output file; empty writes to stdout.
	Output string `mapstructure:"output"`

	// TopN limits the category ranking (0 = all).
	TopN int `mapstructure:"top_n"`
}

// GenerateConfig holds configuration for dataset generation.
type GenerateConfig struct {
	// OutputDir is where the CSV files are written.
	OutputDir string `mapstructure:"output_dir"`

	// Orders is the number of orders to generate.
	Orders int `mapstructure:"orders"`

	// Seed makes generation reproducible (0 = random).
	Seed uint64 `mapstructure:"seed"`

	// StartYear and EndYear bound purchase dates.
	StartYear int `mapstructure:"start_year"`
	EndYear   int `mapstructure:"end_year"`

	// Compress writes snappy-compressed .sz files.
	Compress bool `mapstructure:"compress"`
}

// InitConfig holds configuration for database seeding.
type InitConfig struct {
	// DropExisting drops existing tables before seeding.
	DropExisting bool `mapstructure:"drop_existing"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		DataPath: "data",
		Source:   SourceLocal,
		LogLevel: "info",
		Analysis: AnalysisConfig{
			AnalysisYear:   2023,
			ComparisonYear: 2022,
			StatusFilter:   "delivered",
		},
		Report: ReportConfig{
			Format: "table",
			TopN:   10,
		},
		Generate: GenerateConfig{
			OutputDir: "data",
			Orders:    10000,
			StartYear: 2022,
			EndYear:   2023,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-salesmetrics.yaml
// 3. ~/.config/pgedge-salesmetrics/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("pgedge-salesmetrics")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-salesmetrics"))
	}

	// Use specific config file if provided
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

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the table source is usable.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceLocal:
		if c.DataPath == "" {
			return fmt.Errorf("data_path is required for the local source")
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for the s3 source")
		}
	case SourcePostgres:
		if c.Connection == "" {
			return fmt.Errorf("connection string is required for the postgres source")
		}
	default:
		return fmt.Errorf("source must be 'local', 's3' or 'postgres'")
	}
	return nil
}

// ValidateAnalysis checks configuration required for summary and report.
func (c *Config) ValidateAnalysis() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Analysis.AnalysisYear < 1 || c.Analysis.ComparisonYear < 1 {
		return fmt.Errorf("analysis_year and comparison_year must be positive")
	}
	if strings.TrimSpace(c.Analysis.StatusFilter) == "" {
		return fmt.Errorf("status_filter is required")
	}
	if c.Report.Format == "" {
		return fmt.Errorf("report format is required")
	}
	if c.Report.TopN < 0 {
		return fmt.Errorf("top_n must be non-negative")
	}
	return nil
}

// ValidateGenerate checks configuration required for generate command.
func (c *Config) ValidateGenerate() error {
	if c.Generate.OutputDir == "" {
		return fmt.Errorf("output directory is required for generate")
	}
	if c.Generate.Orders < 1 {
		return fmt.Errorf("orders must be at least 1")
	}
	if c.Generate.EndYear < c.Generate.StartYear {
		return fmt.Errorf("end_year must be >= start_year")
	}
	return nil
}

// ValidateInit checks configuration required for init command. Init reads
// CSV tables and writes them to PostgreSQL.
func (c *Config) ValidateInit() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required for init")
	}
	if c.Source == SourcePostgres {
		return fmt.Errorf("init reads from a local or s3 source, not postgres")
	}
	return c.Validate()
}
