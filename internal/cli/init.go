//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesmetrics/internal/db"
	"github.com/pgEdge/pgedge-salesmetrics/internal/loader"
	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Load CSV tables into a PostgreSQL database",
	Long: `Create the source tables in a PostgreSQL database and copy the CSV
files from the configured local or S3 source into them. The database can
then be analyzed with --source postgres.

Example:
  pgedge-salesmetrics init --data ./data --connection "postgres://..."
  pgedge-salesmetrics init --data ./data --connection "postgres://..." --drop-existing`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing tables before loading")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateInit(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	logging.Info().
		Str("source", src.Describe()).
		Msg("Reading source tables")

	ds, err := loader.New(src).LoadAllData(ctx)
	if err != nil {
		return err
	}
	ds.Rejected.Log()

	// Connect to database
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Refuse to load over an existing dataset unless asked to
	exists, err := db.MetadataExists(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to check metadata: %w", err)
	}
	if exists && !cfg.Init.DropExisting {
		loadedFrom, _ := db.GetMetadataValue(ctx, pool, "source")
		return fmt.Errorf(
			"database already holds tables loaded from '%s'; "+
				"use --drop-existing to reinitialize", loadedFrom)
	}

	// Drop existing schema if requested
	if cfg.Init.DropExisting {
		logging.Info().Msg("Dropping existing schema")
		if err := db.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	// Create schema
	logging.Info().Msg("Creating schema")
	if err := db.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := db.SeedDataset(ctx, pool, ds); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}

	// Save metadata
	if err := db.SaveMetadata(ctx, pool, src.Describe(), ds.RowCounts()); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Str("database", db.Describe(pool)).
		Msg("Database initialization complete")

	return nil
}
