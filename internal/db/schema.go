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

	"github.com/jackc/pgx/v5/pgxpool"
)

// Table and column names match the CSV layout so the same loader reads
// both sources. Timestamps keep their source text; the loader parses them
// and rejects the ones it cannot read, as it does for CSV files.
const createSchemaSQL = `
-- Orders: one row per order
CREATE TABLE IF NOT EXISTS orders (
    order_id                      TEXT PRIMARY KEY,
    customer_id                   TEXT NOT NULL,
    order_status                  TEXT NOT NULL,
    order_purchase_timestamp      TEXT,
    order_delivered_customer_date TEXT
);

-- Order Items: line items
CREATE TABLE IF NOT EXISTS order_items (
    order_id      TEXT NOT NULL,
    order_item_id INTEGER,
    product_id    TEXT,
    price         NUMERIC(12,2) NOT NULL CHECK (price >= 0)
);

-- Products: catalog categories
CREATE TABLE IF NOT EXISTS products (
    product_id            TEXT PRIMARY KEY,
    product_category_name TEXT
);

-- Customers: customer region
CREATE TABLE IF NOT EXISTS customers (
    customer_id    TEXT PRIMARY KEY,
    customer_state TEXT
);

-- Reviews: one or more per order
CREATE TABLE IF NOT EXISTS reviews (
    order_id     TEXT NOT NULL,
    review_score INTEGER NOT NULL CHECK (review_score >= 1 AND review_score <= 5)
);

CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(order_status);
CREATE INDEX IF NOT EXISTS idx_reviews_order ON reviews(order_id);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS reviews CASCADE;
DROP TABLE IF EXISTS order_items CASCADE;
DROP TABLE IF EXISTS orders CASCADE;
DROP TABLE IF EXISTS products CASCADE;
DROP TABLE IF EXISTS customers CASCADE;
`

// CreateSchema creates the sales tables.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema drops the sales tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
