//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sales

import "time"

// Order is the header of one order regardless of its status. Status-level
// aggregates read these because the sales table keeps a single status.
type Order struct {
	OrderID     string
	Status      string
	PurchasedAt time.Time
}

// Year returns the purchase year.
func (o Order) Year() int {
	return o.PurchasedAt.Year()
}

// Orders is a list of order headers.
type Orders []Order

// ForYear returns the orders purchased in year, as a new list.
func (os Orders) ForYear(year int) Orders {
	out := make(Orders, 0, len(os))
	for _, o := range os {
		if o.Year() == year {
			out = append(out, o)
		}
	}
	return out
}
