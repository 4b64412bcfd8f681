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
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesmetrics/internal/loader"
	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
	"github.com/pgEdge/pgedge-salesmetrics/internal/metrics"
	"github.com/pgEdge/pgedge-salesmetrics/internal/report"
)

var (
	analysisYear   int
	comparisonYear int
	statusFilter   string
	reportFormat   string
	reportOutput   string
	reportTopN     int
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Compute headline year-over-year metrics",
	Long: `Load the source tables, derive the sales table and print the headline
metrics: total revenue, revenue growth, average order value, total orders,
order growth and the month-over-month revenue growth series. Metrics that
cannot be computed (for example growth against a year without sales) are
reported as n/a in text formats and null in JSON.

Example:
  pgedge-salesmetrics summary --data ./data --analysis-year 2023 --comparison-year 2022
  pgedge-salesmetrics summary --source postgres --connection "postgres://..." --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, false)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute headline metrics and grouped breakdowns",
	Long: `Compute the summary metrics plus revenue by product category and by
customer state, the review score distribution, the average review score per
delivery speed and the order status distribution of the analysis year.

Example:
  pgedge-salesmetrics report --data ./data --top 5
  pgedge-salesmetrics report --format xlsx --output sales.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{summaryCmd, reportCmd} {
		c.Flags().IntVar(&analysisYear, "analysis-year", 0,
			"year to analyze (default: 2023)")
		c.Flags().IntVar(&comparisonYear, "comparison-year", 0,
			"baseline year (default: 2022)")
		c.Flags().StringVar(&statusFilter, "status", "",
			"order status counted as a sale (default: delivered)")
		c.Flags().StringVar(&reportFormat, "format", "",
			"output format: table, json, csv, xlsx")
		c.Flags().StringVar(&reportOutput, "output", "",
			"output file (default: stdout)")
	}
	reportCmd.Flags().IntVar(&reportTopN, "top", 0,
		"number of categories to rank (default: 10)")
}

func runAnalysis(cmd *cobra.Command, breakdowns bool) error {
	// Override config with CLI flags
	if analysisYear > 0 {
		cfg.Analysis.AnalysisYear = analysisYear
	}
	if comparisonYear > 0 {
		cfg.Analysis.ComparisonYear = comparisonYear
	}
	if statusFilter != "" {
		cfg.Analysis.StatusFilter = statusFilter
	}
	if reportFormat != "" {
		cfg.Report.Format = reportFormat
	}
	if reportOutput != "" {
		cfg.Report.Output = reportOutput
	}
	if reportTopN > 0 {
		cfg.Report.TopN = reportTopN
	}

	// Validate configuration
	if err := cfg.ValidateAnalysis(); err != nil {
		return err
	}
	if _, err := report.Get(cfg.Report.Format); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	start := time.Now()
	res, err := loader.New(src).BuildSales(ctx, cfg.Analysis.StatusFilter)
	if err != nil {
		return err
	}

	engine := metrics.New(metrics.Config{
		AnalysisYear:   cfg.Analysis.AnalysisYear,
		ComparisonYear: cfg.Analysis.ComparisonYear,
	})

	r := &report.Report{
		RunID:        runID,
		GeneratedAt:  time.Now().UTC(),
		Source:       src.Describe(),
		StatusFilter: cfg.Analysis.StatusFilter,
		SalesRows:    len(res.Sales),
		Summary:      engine.Summary(res.Sales),
	}
	if res.Rejected.Count() > 0 {
		r.DroppedRows = res.Rejected.Summary()
	}
	if breakdowns {
		b := engine.Breakdowns(res.Sales, res.Orders, cfg.Report.TopN)
		r.Breakdowns = &b
	}

	logging.Info().
		Int("analysis_year", engine.AnalysisYear()).
		Int("comparison_year", engine.ComparisonYear()).
		Dur("elapsed", time.Since(start)).
		Msg("Metrics computed")

	return report.Render(cfg.Report.Format, cfg.Report.Output, cmd.OutOrStdout(), r)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
