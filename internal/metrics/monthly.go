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

	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

// MonthlyGrowth is one month of a year's month-over-month series.
type MonthlyGrowth struct {
	Month int `json:"month"`

	// Revenue is null for a month without sales.
	Revenue decimal.NullDecimal `json:"revenue"`

	// Growth is undefined for January, for a month without sales, and for a
	// month whose previous month had no revenue.
	Growth Ratio `json:"growth"`
}

// MonthlyRevenue returns revenue per month of year, indexed 1-12. Months
// without sales are null.
func (e *Engine) MonthlyRevenue(t sales.Table, year int) [13]decimal.NullDecimal {
	var months [13]decimal.NullDecimal
	for _, r := range t {
		if r.Year() != year {
			continue
		}
		m := r.Month()
		if !months[m].Valid {
			months[m] = decimal.NewNullDecimal(decimal.Zero)
		}
		months[m].Decimal = months[m].Decimal.Add(r.Price)
	}
	return months
}

// MonthlyGrowth returns twelve entries, January first.
func (e *Engine) MonthlyGrowth(t sales.Table, year int) []MonthlyGrowth {
	revenue := e.MonthlyRevenue(t, year)

	out := make([]MonthlyGrowth, 0, 12)
	for m := 1; m <= 12; m++ {
		entry := MonthlyGrowth{Month: m, Revenue: revenue[m]}
		if m > 1 && revenue[m].Valid && revenue[m-1].Valid {
			entry.Growth = ratioOf(growth(revenue[m].Decimal, revenue[m-1].Decimal))
		}
		out = append(out, entry)
	}
	return out
}

// AverageMonthlyGrowth returns the mean of the defined entries of series.
func AverageMonthlyGrowth(series []MonthlyGrowth) Ratio {
	sum := 0.0
	n := 0
	for _, g := range series {
		if g.Growth.Valid {
			sum += g.Growth.Value
			n++
		}
	}
	if n == 0 {
		return Ratio{}
	}
	return Defined(sum / float64(n))
}
