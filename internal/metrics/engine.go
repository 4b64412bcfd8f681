//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package metrics computes year-over-year business metrics from a sales
// table.
package metrics

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

// ErrDivisionUndefined is returned when a ratio's denominator is zero.
var ErrDivisionUndefined = errors.New("division undefined: denominator is zero")

// Config holds the year pair metrics compare.
type Config struct {
	AnalysisYear   int
	ComparisonYear int
}

// DefaultConfig returns the default year pair.
func DefaultConfig() Config {
	return Config{
		AnalysisYear:   2023,
		ComparisonYear: 2022,
	}
}

// Engine computes metrics for a fixed year pair. It holds no mutable state
// and may be shared between goroutines.
type Engine struct {
	cfg Config
}

// New creates an engine for cfg.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// AnalysisYear returns the year being analyzed.
func (e *Engine) AnalysisYear() int {
	return e.cfg.AnalysisYear
}

// ComparisonYear returns the baseline year.
func (e *Engine) ComparisonYear() int {
	return e.cfg.ComparisonYear
}

// Revenue returns the sum of prices purchased in year.
func (e *Engine) Revenue(t sales.Table, year int) decimal.Decimal {
	total := decimal.Zero
	for _, r := range t {
		if r.Year() == year {
			total = total.Add(r.Price)
		}
	}
	return total
}

// RevenueGrowth returns the relative revenue change from the comparison year
// to the analysis year.
func (e *Engine) RevenueGrowth(t sales.Table) (float64, error) {
	return growth(e.Revenue(t, e.cfg.AnalysisYear), e.Revenue(t, e.cfg.ComparisonYear))
}

// TotalOrders returns the number of distinct orders purchased in year.
func (e *Engine) TotalOrders(t sales.Table, year int) int {
	seen := make(map[string]struct{})
	for _, r := range t {
		if r.Year() == year {
			seen[r.OrderID] = struct{}{}
		}
	}
	return len(seen)
}

// OrderGrowth returns the relative change in order count from the
// comparison year to the analysis year.
func (e *Engine) OrderGrowth(t sales.Table) (float64, error) {
	current := decimal.NewFromInt(int64(e.TotalOrders(t, e.cfg.AnalysisYear)))
	previous := decimal.NewFromInt(int64(e.TotalOrders(t, e.cfg.ComparisonYear)))
	return growth(current, previous)
}

// AverageOrderValue returns the revenue per distinct order in year.
func (e *Engine) AverageOrderValue(t sales.Table, year int) (decimal.Decimal, error) {
	orders := e.TotalOrders(t, year)
	if orders == 0 {
		return decimal.Decimal{}, ErrDivisionUndefined
	}
	return e.Revenue(t, year).Div(decimal.NewFromInt(int64(orders))), nil
}

// AOVGrowth returns the relative change in average order value from the
// comparison year to the analysis year.
func (e *Engine) AOVGrowth(t sales.Table) (float64, error) {
	current, err := e.AverageOrderValue(t, e.cfg.AnalysisYear)
	if err != nil {
		return 0, err
	}
	previous, err := e.AverageOrderValue(t, e.cfg.ComparisonYear)
	if err != nil {
		return 0, err
	}
	return growth(current, previous)
}

func growth(current, previous decimal.Decimal) (float64, error) {
	if previous.IsZero() {
		return 0, ErrDivisionUndefined
	}
	f, _ := current.Sub(previous).Div(previous).Float64()
	return f, nil
}
