//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-salesmetrics/internal/datagen"
	"github.com/pgEdge/pgedge-salesmetrics/internal/loader"
	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
)

// copyBatchSize is the number of rows sent per COPY.
const copyBatchSize = 10000

// SeedDataset copies every table of ds into the schema created by
// CreateSchema.
func SeedDataset(ctx context.Context, pool *pgxpool.Pool, ds *loader.Dataset) error {
	orders := ds.Orders
	if err := copyRows(ctx, pool, loader.TableOrders, len(orders), func(i int) []any {
		return orderRow(orders[i])
	}); err != nil {
		return err
	}

	items := ds.OrderItems
	if err := copyRows(ctx, pool, loader.TableOrderItems, len(items), func(i int) []any {
		it := items[i]
		itemID := pgtype.Int4{Int32: int32(it.OrderItemID), Valid: it.OrderItemID > 0}
		return []any{it.OrderID, itemID, text(it.ProductID), numeric(it.Price)}
	}); err != nil {
		return err
	}

	products := ds.Products
	if err := copyRows(ctx, pool, loader.TableProducts, len(products), func(i int) []any {
		return []any{products[i].ProductID, text(products[i].CategoryName)}
	}); err != nil {
		return err
	}

	customers := ds.Customers
	if err := copyRows(ctx, pool, loader.TableCustomers, len(customers), func(i int) []any {
		return []any{customers[i].CustomerID, text(customers[i].State)}
	}); err != nil {
		return err
	}

	reviews := ds.Reviews
	return copyRows(ctx, pool, loader.TableReviews, len(reviews), func(i int) []any {
		return []any{reviews[i].OrderID, int32(reviews[i].Score)}
	})
}

func copyRows(ctx context.Context, pool *pgxpool.Pool, table string, n int, row func(int) []any) error {
	spec, ok := loader.Spec(table)
	if !ok {
		return fmt.Errorf("unknown table: %s", table)
	}
	columns := seedColumns[table]
	if columns == nil {
		columns = spec.Columns()
	}

	progress := datagen.NewProgressReporter(table, int64(n), copyBatchSize)
	for start := 0; start < n; start += copyBatchSize {
		end := min(start+copyBatchSize, n)
		copied, err := pool.CopyFrom(ctx,
			pgx.Identifier{table},
			columns,
			pgx.CopyFromSlice(end-start, func(i int) ([]any, error) {
				return row(start + i), nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", table, err)
		}
		progress.Update(copied)
	}
	progress.Done()

	logging.Debug().
		Str("table", table).
		Int("rows", n).
		Msg("Copied table")
	return nil
}

// seedColumns fixes the COPY column order where it differs from the
// table spec order.
var seedColumns = map[string][]string{
	loader.TableOrderItems: {loader.ColOrderID, loader.ColOrderItemID, loader.ColProductID, loader.ColPrice},
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// orderRow keeps timestamps as written so malformed values reach the
// loader and are rejected there.
func orderRow(o loader.Order) []any {
	return []any{o.OrderID, o.CustomerID, o.Status, text(o.PurchaseTimestamp), text(o.DeliveredAt)}
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
