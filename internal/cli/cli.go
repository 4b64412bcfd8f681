//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-salesmetrics.
package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesmetrics/internal/config"
	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
	"github.com/pgEdge/pgedge-salesmetrics/internal/report"
	"github.com/pgEdge/pgedge-salesmetrics/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	dataPath   string
	source     string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	// runID tags the log lines of one invocation.
	runID string

	rootCmd = &cobra.Command{
		Use:   "pgedge-salesmetrics",
		Short: "Year-over-year sales metrics from e-commerce order data",
		Long: `pgedge-salesmetrics loads raw e-commerce tables (orders, order items,
products, customers and reviews), derives a cleaned sales table and computes
year-over-year business metrics: revenue, order volume, average order value,
month-over-month growth and delivery performance.

Tables are read from CSV files in a local directory or an S3 bucket, or from
a PostgreSQL database seeded with the 'init' command. Every run recomputes
from the source tables.`,
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
		"config file (default: ./pgedge-salesmetrics.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "",
		"directory or S3 prefix holding the CSV tables")
	rootCmd.PersistentFlags().StringVar(&source, "source", "",
		"table source: local, s3 or postgres")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(formatsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if source != "" {
		cfg.Source = source
	}
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	runID = uuid.NewString()

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: !cfg.LogJSON,
		RunID:  runID,
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

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available report formats",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available report formats:")
		cmd.Println()
		for _, w := range report.All() {
			cmd.Printf("  %-6s - %s\n", w.Name(), w.Description())
		}
	},
}
