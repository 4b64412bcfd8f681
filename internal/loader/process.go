//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package loader

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

// ProcessSalesData joins order items to their orders (inner join on
// order_id), keeps the rows whose order status equals statusFilter, and
// parses purchase and delivery times. Rows with a malformed timestamp are
// dropped and returned as rejections.
func ProcessSalesData(orders []Order, items []OrderItem, statusFilter string) (sales.Table, Rejections, error) {
	status := normalizeStatus(statusFilter)
	if status == "" {
		return nil, nil, fmt.Errorf("status filter is required")
	}

	byID := make(map[string]int, len(orders))
	for i, o := range orders {
		if _, ok := byID[o.OrderID]; !ok {
			byID[o.OrderID] = i
		}
	}

	out := make(sales.Table, 0, len(items))
	var rejected Rejections
	unmatched := 0

	for i, item := range items {
		idx, ok := byID[item.OrderID]
		if !ok {
			unmatched++
			continue
		}
		order := orders[idx]
		if order.Status != status {
			continue
		}

		purchased, err := sales.ParseTimestamp(order.PurchaseTimestamp)
		if err != nil {
			rejected = append(rejected, RecordDerivationError{
				Table:  TableOrderItems,
				Row:    i + 1,
				Key:    item.OrderID,
				Column: ColPurchaseTimestamp,
				Reason: ReasonMalformedTimestamp,
				Err:    err,
			})
			continue
		}

		var delivered sql.Null[time.Time]
		if order.DeliveredAt != "" {
			t, err := sales.ParseTimestamp(order.DeliveredAt)
			if err != nil {
				rejected = append(rejected, RecordDerivationError{
					Table:  TableOrderItems,
					Row:    i + 1,
					Key:    item.OrderID,
					Column: ColDeliveredCustomer,
					Reason: ReasonMalformedTimestamp,
					Err:    err,
				})
				continue
			}
			delivered = sql.Null[time.Time]{V: t, Valid: true}
		}

		out = append(out, sales.Record{
			OrderID:     item.OrderID,
			OrderItemID: item.OrderItemID,
			ProductID:   item.ProductID,
			CustomerID:  order.CustomerID,
			Price:       item.Price,
			OrderStatus: order.Status,
			PurchasedAt: purchased,
			DeliveredAt: delivered,
		})
	}

	if unmatched > 0 {
		logging.Debug().
			Int("rows", unmatched).
			Msg("Dropped order items without a matching order")
	}

	return out, rejected, nil
}

// OrderHeaders returns every order with its parsed purchase time, whatever
// its status. Orders whose purchase time does not parse are left out.
func OrderHeaders(orders []Order) sales.Orders {
	out := make(sales.Orders, 0, len(orders))
	skipped := 0
	for _, o := range orders {
		purchased, err := sales.ParseTimestamp(o.PurchaseTimestamp)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, sales.Order{
			OrderID:     o.OrderID,
			Status:      o.Status,
			PurchasedAt: purchased,
		})
	}
	if skipped > 0 {
		logging.Debug().
			Int("orders", skipped).
			Msg("Orders without a readable purchase time left out of status counts")
	}
	return out
}

// AddDeliveryMetrics sets the delivery speed in whole days (floored) from
// purchase to customer delivery. Records without a delivery time get a null
// speed.
func AddDeliveryMetrics(t sales.Table) sales.Table {
	return t.Map(func(r sales.Record) sales.Record {
		if !r.DeliveredAt.Valid {
			r.DeliverySpeedDays = sql.Null[int]{}
			return r
		}
		days := math.Floor(r.DeliveredAt.V.Sub(r.PurchasedAt).Hours() / 24)
		r.DeliverySpeedDays = sales.Days(int(days))
		return r
	})
}

// MergeSalesWithCustomers adds the customer state (left join through the
// order's customer). Unmatched records keep a null state.
func MergeSalesWithCustomers(t sales.Table, orders []Order, customers []Customer) sales.Table {
	customerOf := make(map[string]string, len(orders))
	for _, o := range orders {
		if _, ok := customerOf[o.OrderID]; !ok {
			customerOf[o.OrderID] = o.CustomerID
		}
	}
	stateOf := make(map[string]string, len(customers))
	for _, c := range customers {
		if _, ok := stateOf[c.CustomerID]; !ok {
			stateOf[c.CustomerID] = c.State
		}
	}

	return t.Map(func(r sales.Record) sales.Record {
		customerID, ok := customerOf[r.OrderID]
		if !ok {
			customerID = r.CustomerID
		}
		r.CustomerID = customerID
		r.CustomerState = nullString(stateOf[customerID])
		return r
	})
}

// MergeSalesWithCategories adds the product category (left join on
// product_id). Unmatched or uncategorised records keep a null category.
func MergeSalesWithCategories(t sales.Table, products []Product) sales.Table {
	categoryOf := make(map[string]string, len(products))
	for _, p := range products {
		if _, ok := categoryOf[p.ProductID]; !ok {
			categoryOf[p.ProductID] = p.CategoryName
		}
	}

	return t.Map(func(r sales.Record) sales.Record {
		r.CategoryName = nullString(categoryOf[r.ProductID])
		return r
	})
}

// MergeSalesWithReviews adds the order's review score (left join on
// order_id, first review per order). The row count is preserved.
func MergeSalesWithReviews(t sales.Table, reviews []Review) sales.Table {
	scoreOf := make(map[string]int, len(reviews))
	for _, rv := range reviews {
		if _, ok := scoreOf[rv.OrderID]; !ok {
			scoreOf[rv.OrderID] = rv.Score
		}
	}

	return t.Map(func(r sales.Record) sales.Record {
		if score, ok := scoreOf[r.OrderID]; ok {
			r.ReviewScore = sql.Null[int]{V: score, Valid: true}
		} else {
			r.ReviewScore = sql.Null[int]{}
		}
		return r
	})
}

func nullString(s string) sql.Null[string] {
	if s == "" {
		return sql.Null[string]{}
	}
	return sql.Null[string]{V: s, Valid: true}
}
