//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package loader reads the raw e-commerce tables and derives the sales table.
//
// Every derivation returns a newly allocated table and never modifies its
// inputs, so a caller may freely mutate a result without affecting the
// tables it was derived from.
package loader

import (
	"context"
	"fmt"

	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

// DefaultStatusFilter is the order status counted as a sale.
const DefaultStatusFilter = "delivered"

// Loader loads datasets from a source.
type Loader struct {
	source Source
}

// New creates a loader reading from source.
func New(source Source) *Loader {
	return &Loader{source: source}
}

// LoadAllData reads and coerces every table. Either all tables load or an
// error naming the failing table is returned.
func (l *Loader) LoadAllData(ctx context.Context) (*Dataset, error) {
	raw := make(map[string]*RawTable, len(Tables))
	for _, spec := range Tables {
		t, err := l.source.ReadTable(ctx, spec)
		if err != nil {
			return nil, err
		}
		logging.Debug().
			Str("table", spec.Name).
			Str("origin", t.Origin).
			Int("rows", len(t.Records)).
			Msg("Read table")
		raw[spec.Name] = t
	}

	ds := &Dataset{}
	var rejected Rejections
	var err error

	spec, _ := Spec(TableOrders)
	if ds.Orders, rejected, err = parseOrders(raw[TableOrders], spec); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rejected...)

	spec, _ = Spec(TableOrderItems)
	if ds.OrderItems, rejected, err = parseOrderItems(raw[TableOrderItems], spec); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rejected...)

	spec, _ = Spec(TableProducts)
	if ds.Products, rejected, err = parseProducts(raw[TableProducts], spec); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rejected...)

	spec, _ = Spec(TableCustomers)
	if ds.Customers, rejected, err = parseCustomers(raw[TableCustomers], spec); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rejected...)

	spec, _ = Spec(TableReviews)
	if ds.Reviews, rejected, err = parseReviews(raw[TableReviews], spec); err != nil {
		return nil, err
	}
	ds.Rejected = append(ds.Rejected, rejected...)

	return ds, nil
}

// Result is the output of BuildSales.
type Result struct {
	Dataset *Dataset
	Sales   sales.Table

	// Orders holds every order header, unfiltered by status.
	Orders sales.Orders

	Rejected Rejections
}

// BuildSales runs the whole loading stage: load, filter and join, then add
// delivery speed, customer state, product category and review score.
func (l *Loader) BuildSales(ctx context.Context, statusFilter string) (*Result, error) {
	logging.Info().
		Str("source", l.source.Describe()).
		Str("status_filter", statusFilter).
		Msg("Loading dataset")

	ds, err := l.LoadAllData(ctx)
	if err != nil {
		return nil, err
	}

	base, dropped, err := ProcessSalesData(ds.Orders, ds.OrderItems, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to process sales data: %w", err)
	}

	enriched := AddDeliveryMetrics(base)
	enriched = MergeSalesWithCustomers(enriched, ds.Orders, ds.Customers)
	enriched = MergeSalesWithCategories(enriched, ds.Products)
	enriched = MergeSalesWithReviews(enriched, ds.Reviews)

	rejected := make(Rejections, 0, len(ds.Rejected)+len(dropped))
	rejected = append(rejected, ds.Rejected...)
	rejected = append(rejected, dropped...)
	rejected.Log()

	counts := ds.RowCounts()
	logging.Info().
		Int("orders", counts[TableOrders]).
		Int("order_items", counts[TableOrderItems]).
		Int("sales_rows", len(enriched)).
		Int("dropped_rows", rejected.Count()).
		Msg("Sales data ready")

	return &Result{
		Dataset:  ds,
		Sales:    enriched,
		Orders:   OrderHeaders(ds.Orders),
		Rejected: rejected,
	}, nil
}
