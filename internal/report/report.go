//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report renders metrics in several output formats.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
	"github.com/pgEdge/pgedge-salesmetrics/internal/metrics"
)

// Writer renders a report in one format.
type Writer interface {
	// Name returns the format name used by --format.
	Name() string

	// Description returns a short description of the format.
	Description() string

	// Binary reports whether the output must go to a file.
	Binary() bool

	// Write renders r to w.
	Write(w io.Writer, r *Report) error
}

// Report is everything one run produces.
type Report struct {
	RunID        string              `json:"run_id,omitempty"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Source       string              `json:"source"`
	StatusFilter string              `json:"status_filter"`
	SalesRows    int                 `json:"sales_rows"`
	DroppedRows  map[string]int      `json:"dropped_rows,omitempty"`
	Summary      metrics.Summary     `json:"summary"`
	Breakdowns   *metrics.Breakdowns `json:"breakdowns,omitempty"`
}

// Render writes r in format to path, or to stdout when path is empty.
func Render(format, path string, stdout io.Writer, r *Report) error {
	w, err := Get(format)
	if err != nil {
		return err
	}

	if path == "" {
		if w.Binary() {
			return fmt.Errorf("format %s requires an output file", format)
		}
		return w.Write(stdout, r)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := w.Write(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	logging.Info().
		Str("format", format).
		Str("path", path).
		Msg("Report written")
	return nil
}

// Section is one tabular block of a report.
type Section struct {
	Name   string
	Header []string

	// Rows hold string, int, float64, decimal.Decimal or nil (undefined).
	Rows [][]any
}

// Sections flattens the report into tabular blocks, summary first.
func (r *Report) Sections() []Section {
	s := r.Summary
	sections := []Section{
		{
			Name:   "Summary",
			Header: []string{"metric", "value"},
			Rows: [][]any{
				{"analysis_year", s.AnalysisYear},
				{"comparison_year", s.ComparisonYear},
				{"total_revenue", s.TotalRevenue},
				{"revenue_growth", ratio(s.RevenueGrowth)},
				{"avg_order_value", nullDecimal(s.AvgOrderValue)},
				{"total_orders", s.TotalOrders},
				{"order_growth", ratio(s.OrderGrowth)},
				{"aov_growth", ratio(s.AOVGrowth)},
				{"avg_monthly_growth", ratio(s.AvgMonthlyGrowth)},
			},
		},
	}

	monthly := Section{Name: "Monthly", Header: []string{"month", "revenue", "growth"}}
	for _, m := range s.MonthlyGrowth {
		monthly.Rows = append(monthly.Rows, []any{m.Month, nullDecimal(m.Revenue), ratio(m.Growth)})
	}
	sections = append(sections, monthly)

	if b := r.Breakdowns; b != nil {
		sections = append(sections,
			groupSection("Categories", "category", b.Categories),
			groupSection("States", "state", b.States),
		)

		scores := Section{Name: "Review Scores", Header: []string{"score", "orders", "share"}}
		for _, sc := range b.ReviewScores {
			scores.Rows = append(scores.Rows, []any{sc.Score, sc.Orders, ratio(sc.Share)})
		}

		delivery := Section{Name: "Delivery", Header: []string{"delivery_speed", "orders", "average_score"}}
		for _, d := range b.DeliveryReview {
			delivery.Rows = append(delivery.Rows, []any{string(d.Category), d.Orders, ratio(d.AverageScore)})
		}

		status := Section{Name: "Order Status", Header: []string{"status", "orders"}}
		for _, st := range b.OrderStatus {
			status.Rows = append(status.Rows, []any{st.Status, st.Orders})
		}

		sections = append(sections, scores, delivery, status)
	}

	return sections
}

func groupSection(name, key string, groups []metrics.GroupRevenue) Section {
	sec := Section{Name: name, Header: []string{key, "revenue", "orders"}}
	for _, g := range groups {
		sec.Rows = append(sec.Rows, []any{g.Name, g.Revenue, g.Orders})
	}
	return sec
}

func ratio(r metrics.Ratio) any {
	if !r.Valid {
		return nil
	}
	return r.Value
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}

// formatCell renders a cell for text formats. Undefined values print as
// "n/a" in text and as an empty field in CSV.
func formatCell(v any, undefined string) string {
	switch x := v.(type) {
	case nil:
		return undefined
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', 4, 64)
	case decimal.Decimal:
		return x.StringFixed(2)
	default:
		return fmt.Sprint(x)
	}
}
