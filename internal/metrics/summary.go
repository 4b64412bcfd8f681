//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

// Summary is the headline metric set for a year pair. Undefined figures are
// kept as nulls so consumers can tell "zero" from "not computable".
type Summary struct {
	AnalysisYear     int                 `json:"analysis_year"`
	ComparisonYear   int                 `json:"comparison_year"`
	TotalRevenue     decimal.Decimal     `json:"total_revenue"`
	RevenueGrowth    Ratio               `json:"revenue_growth"`
	AvgOrderValue    decimal.NullDecimal `json:"avg_order_value"`
	TotalOrders      int                 `json:"total_orders"`
	OrderGrowth      Ratio               `json:"order_growth"`
	MonthlyGrowth    []MonthlyGrowth     `json:"monthly_growth"`
	AOVGrowth        Ratio               `json:"aov_growth"`
	AvgMonthlyGrowth Ratio               `json:"avg_monthly_growth"`
}

// Summary computes every headline metric. It never fails: an undefined ratio
// is reported as null.
func (e *Engine) Summary(t sales.Table) Summary {
	year := e.cfg.AnalysisYear
	monthly := e.MonthlyGrowth(t, year)

	s := Summary{
		AnalysisYear:     year,
		ComparisonYear:   e.cfg.ComparisonYear,
		TotalRevenue:     e.Revenue(t, year),
		RevenueGrowth:    ratioOf(e.RevenueGrowth(t)),
		TotalOrders:      e.TotalOrders(t, year),
		OrderGrowth:      ratioOf(e.OrderGrowth(t)),
		MonthlyGrowth:    monthly,
		AOVGrowth:        ratioOf(e.AOVGrowth(t)),
		AvgMonthlyGrowth: AverageMonthlyGrowth(monthly),
	}
	if aov, err := e.AverageOrderValue(t, year); err == nil {
		s.AvgOrderValue = decimal.NewNullDecimal(aov)
	}

	logging.Debug().
		Int("analysis_year", s.AnalysisYear).
		Int("comparison_year", s.ComparisonYear).
		Int("total_orders", s.TotalOrders).
		Bool("revenue_growth_defined", s.RevenueGrowth.Valid).
		Bool("order_growth_defined", s.OrderGrowth.Valid).
		Bool("aov_defined", s.AvgOrderValue.Valid).
		Msg("Computed summary metrics")

	return s
}
