//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesmetrics/internal/datagen"
	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
)

var (
	generateOut       string
	generateOrders    int
	generateSeed      uint64
	generateStartYear int
	generateEndYear   int
	generateCompress  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic e-commerce dataset",
	Long: `Write the five source tables as CSV files into a directory. Orders are
spread over the requested years with a realistic status mix, and a fraction
of rows carry missing values so the cleaning paths are exercised.

Example:
  pgedge-salesmetrics generate --out ./data --orders 50000 --seed 42
  pgedge-salesmetrics generate --out ./data --compress`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "",
		"output directory (default: data)")
	generateCmd.Flags().IntVar(&generateOrders, "orders", 0,
		"number of orders to generate (default: 10000)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0,
		"random seed for reproducible output (0 = random)")
	generateCmd.Flags().IntVar(&generateStartYear, "start-year", 0,
		"first purchase year (default: 2022)")
	generateCmd.Flags().IntVar(&generateEndYear, "end-year", 0,
		"last purchase year (default: 2023)")
	generateCmd.Flags().BoolVar(&generateCompress, "compress", false,
		"write snappy-compressed .sz files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if generateOut != "" {
		cfg.Generate.OutputDir = generateOut
	}
	if generateOrders > 0 {
		cfg.Generate.Orders = generateOrders
	}
	if generateSeed != 0 {
		cfg.Generate.Seed = generateSeed
	}
	if generateStartYear > 0 {
		cfg.Generate.StartYear = generateStartYear
	}
	if generateEndYear > 0 {
		cfg.Generate.EndYear = generateEndYear
	}
	if generateCompress {
		cfg.Generate.Compress = true
	}

	// Validate configuration
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	genCfg := datagen.DefaultConfig()
	genCfg.Orders = cfg.Generate.Orders
	genCfg.Seed = cfg.Generate.Seed
	genCfg.StartYear = cfg.Generate.StartYear
	genCfg.EndYear = cfg.Generate.EndYear
	genCfg.Compress = cfg.Generate.Compress

	logging.Info().
		Str("out", cfg.Generate.OutputDir).
		Int("orders", genCfg.Orders).
		Msg("Generating dataset")

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	counts, err := datagen.NewGenerator(genCfg).Generate(ctx, cfg.Generate.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	event := logging.Info().Dur("elapsed", time.Since(start))
	for table, n := range counts {
		event = event.Int(table, n)
	}
	event.Msg("Dataset generation complete")

	return nil
}
