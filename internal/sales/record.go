//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sales defines the derived sales table shared by the loader and the
// metrics engine.
//
// A Record holds only value types (nullable attributes use sql.Null), so
// copying a Table copies every attribute and two tables never share mutable
// storage.
package sales

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one order line item joined with its order.
type Record struct {
	OrderID     string
	OrderItemID int
	ProductID   string
	CustomerID  string
	Price       decimal.Decimal
	OrderStatus string

	// PurchasedAt is the order purchase time. Month and Year derive from it.
	PurchasedAt time.Time

	// DeliveredAt is the customer delivery time, null when not delivered.
	DeliveredAt sql.Null[time.Time]

	// DeliverySpeedDays is set by the delivery enrichment step.
	DeliverySpeedDays sql.Null[int]

	// CategoryName is set by the category enrichment step.
	CategoryName sql.Null[string]

	// CustomerState is set by the customer enrichment step.
	CustomerState sql.Null[string]

	// ReviewScore is set by the review enrichment step.
	ReviewScore sql.Null[int]
}

// Month returns the purchase month (1-12).
func (r Record) Month() int {
	return int(r.PurchasedAt.Month())
}

// Year returns the purchase year.
func (r Record) Year() int {
	return r.PurchasedAt.Year()
}

// Table is an ordered set of sales records.
type Table []Record

// Clone returns a copy of the table backed by a new array.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// ForYear returns the records purchased in year, as a new table.
func (t Table) ForYear(year int) Table {
	out := make(Table, 0, len(t))
	for _, r := range t {
		if r.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// Map returns a new table holding fn applied to each record.
func (t Table) Map(fn func(Record) Record) Table {
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = fn(r)
	}
	return out
}

// OrderIDs returns the distinct order ids in first-seen order.
func (t Table) OrderIDs() []string {
	seen := make(map[string]struct{}, len(t))
	ids := make([]string, 0, len(t))
	for _, r := range t {
		if _, ok := seen[r.OrderID]; ok {
			continue
		}
		seen[r.OrderID] = struct{}{}
		ids = append(ids, r.OrderID)
	}
	return ids
}
