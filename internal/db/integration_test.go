//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for the PostgreSQL table source.
// Run with: go test -tags=integration ./internal/db/...
// Requires PostgreSQL to be available.
// Set PGEDGE_TEST_CONN environment variable to override connection string.

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-salesmetrics/internal/db"
	"github.com/pgEdge/pgedge-salesmetrics/internal/loader"
	"github.com/pgEdge/pgedge-salesmetrics/internal/metrics"
	"github.com/pgEdge/pgedge-salesmetrics/internal/testutil"
)

func testDataset() *loader.Dataset {
	return &loader.Dataset{
		Orders: []loader.Order{
			{OrderID: "O1", CustomerID: "C1", Status: "delivered",
				PurchaseTimestamp: "2022-06-01 10:00:00", DeliveredAt: "2022-06-04 09:00:00"},
			{OrderID: "O2", CustomerID: "C2", Status: "delivered",
				PurchaseTimestamp: "2023-06-01 10:00:00"},
			{OrderID: "O3", CustomerID: "C2", Status: "delivered",
				PurchaseTimestamp: "2023-07-01 10:00:00", DeliveredAt: "07/09/2023"},
			{OrderID: "O4", CustomerID: "C1", Status: "canceled",
				PurchaseTimestamp: "2023-08-01 10:00:00"},
		},
		OrderItems: []loader.OrderItem{
			{OrderID: "O1", OrderItemID: 1, ProductID: "P1", Price: decimal.RequireFromString("100.00")},
			{OrderID: "O2", OrderItemID: 1, ProductID: "P1", Price: decimal.RequireFromString("150.00")},
			{OrderID: "O3", OrderItemID: 1, ProductID: "P1", Price: decimal.RequireFromString("30.00")},
		},
		Products:  []loader.Product{{ProductID: "P1", CategoryName: "toys"}},
		Customers: []loader.Customer{{CustomerID: "C1", State: "SP"}, {CustomerID: "C2", State: "RJ"}},
		Reviews:   []loader.Review{{OrderID: "O1", Score: 4}},
	}
}

func TestTableSourceIntegration(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	connStr := testutil.CreateTestDB(t, baseConnStr, "source")
	cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))
	defer cleanup.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool := testutil.ConnectTestDB(t, connStr)
	cleanup.SetPool(pool)

	// A missing table is a data source error.
	src := db.NewTableSource(pool)
	var dsErr *loader.DataSourceError
	if _, err := loader.New(src).LoadAllData(ctx); !errors.As(err, &dsErr) {
		t.Fatalf("Expected DataSourceError before seeding, got %v", err)
	}

	if err := db.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}
	ds := testDataset()
	if err := db.SeedDataset(ctx, pool, ds); err != nil {
		t.Fatalf("SeedDataset failed: %v", err)
	}
	if err := db.SaveMetadata(ctx, pool, "test", ds.RowCounts()); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	if n := testutil.TableRowCount(t, pool, loader.TableOrderItems); n != 3 {
		t.Errorf("Expected 3 order items, got %d", n)
	}
	if v, err := db.GetMetadataValue(ctx, pool, "rows.orders"); err != nil || v != "4" {
		t.Errorf("Expected rows.orders=4, got %q (err %v)", v, err)
	}

	res, err := loader.New(src).BuildSales(ctx, loader.DefaultStatusFilter)
	if err != nil {
		t.Fatalf("BuildSales failed: %v", err)
	}

	// O3's delivered date does not parse, so its row is rejected exactly as
	// it would be when read from CSV.
	if len(res.Sales) != 2 {
		t.Fatalf("Expected 2 sales rows, got %d", len(res.Sales))
	}
	var malformed int
	for _, e := range res.Rejected {
		if e.Key == "O3" && e.Reason == loader.ReasonMalformedTimestamp {
			malformed++
		}
	}
	if malformed != 1 {
		t.Errorf("Expected O3 rejected for a malformed timestamp, got %+v", res.Rejected)
	}

	engine := metrics.New(metrics.DefaultConfig())
	status := engine.OrderStatusDistribution(res.Orders, 2023)
	if len(status) != 2 || status[0].Status != "delivered" || status[0].Orders != 2 ||
		status[1].Status != "canceled" || status[1].Orders != 1 {
		t.Errorf("Unexpected status distribution: %+v", status)
	}

	summary := engine.Summary(res.Sales)
	if !summary.RevenueGrowth.Valid || summary.RevenueGrowth.Value != 0.5 {
		t.Errorf("Expected revenue growth 0.5, got %+v", summary.RevenueGrowth)
	}

	if err := db.DropSchema(ctx, pool); err != nil {
		t.Errorf("DropSchema failed: %v", err)
	}
	if err := db.DropMetadata(ctx, pool); err != nil {
		t.Errorf("DropMetadata failed: %v", err)
	}
}
