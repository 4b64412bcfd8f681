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
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Order is one row of the orders table. Timestamps stay as source text and
// are parsed when sales records are derived.
type Order struct {
	OrderID           string
	CustomerID        string
	Status            string
	PurchaseTimestamp string
	DeliveredAt       string
}

// OrderItem is one row of the order items table.
type OrderItem struct {
	OrderID     string
	OrderItemID int
	ProductID   string
	Price       decimal.Decimal
}

// Product is one row of the products table.
type Product struct {
	ProductID    string
	CategoryName string
}

// Customer is one row of the customers table.
type Customer struct {
	CustomerID string
	State      string
}

// Review is one row of the reviews table.
type Review struct {
	OrderID string
	Score   int
}

// Dataset holds every source table of one pipeline run.
type Dataset struct {
	Orders     []Order
	OrderItems []OrderItem
	Products   []Product
	Customers  []Customer
	Reviews    []Review

	// Rejected lists rows dropped while coercing values.
	Rejected Rejections
}

// RowCounts returns the number of loaded rows per table.
func (d *Dataset) RowCounts() map[string]int {
	return map[string]int{
		TableOrders:     len(d.Orders),
		TableOrderItems: len(d.OrderItems),
		TableProducts:   len(d.Products),
		TableCustomers:  len(d.Customers),
		TableReviews:    len(d.Reviews),
	}
}

// tableReader walks the rows of a raw table by column name and tracks
// per-column coercion failures.
type tableReader struct {
	raw      *RawTable
	index    map[string]int
	failures map[string]int
	rejected Rejections
}

func newTableReader(raw *RawTable, spec TableSpec) (*tableReader, error) {
	if len(raw.Header) == 0 {
		return nil, &SchemaError{Table: spec.Name, Path: raw.Origin, Reason: "missing header"}
	}

	index := make(map[string]int, len(raw.Header))
	for i, col := range raw.Header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}
	for _, col := range spec.Required {
		if _, ok := index[col]; !ok {
			return nil, &SchemaError{
				Table:  spec.Name,
				Path:   raw.Origin,
				Column: col,
				Reason: "required column missing",
			}
		}
	}

	return &tableReader{
		raw:      raw,
		index:    index,
		failures: make(map[string]int),
	}, nil
}

func (r *tableReader) has(col string) bool {
	_, ok := r.index[col]
	return ok
}

func (r *tableReader) value(rec []string, col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (r *tableReader) reject(row int, key, col, reason string, err error) {
	r.failures[col]++
	r.rejected = append(r.rejected, RecordDerivationError{
		Table:  r.raw.Name,
		Row:    row,
		Key:    key,
		Column: col,
		Reason: reason,
		Err:    err,
	})
}

// checkTyped fails when every row failed coercion on a typed column: the
// column has the wrong type rather than a few bad values.
func (r *tableReader) checkTyped(cols ...string) error {
	n := len(r.raw.Records)
	if n == 0 {
		return nil
	}
	for _, col := range cols {
		if r.failures[col] == n {
			return &SchemaError{
				Table:  r.raw.Name,
				Path:   r.raw.Origin,
				Column: col,
				Reason: "no value could be coerced to the column type",
			}
		}
	}
	return nil
}

func parseOrders(raw *RawTable, spec TableSpec) ([]Order, Rejections, error) {
	r, err := newTableReader(raw, spec)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]struct{}, len(raw.Records))
	orders := make([]Order, 0, len(raw.Records))
	for i, rec := range raw.Records {
		id := r.value(rec, ColOrderID)
		if id == "" {
			r.reject(i+1, "", ColOrderID, ReasonMissingKey, nil)
			continue
		}
		if _, dup := seen[id]; dup {
			r.reject(i+1, id, ColOrderID, ReasonDuplicateKey, nil)
			continue
		}
		seen[id] = struct{}{}

		orders = append(orders, Order{
			OrderID:           id,
			CustomerID:        r.value(rec, ColCustomerID),
			Status:            normalizeStatus(r.value(rec, ColOrderStatus)),
			PurchaseTimestamp: r.value(rec, ColPurchaseTimestamp),
			DeliveredAt:       r.value(rec, ColDeliveredCustomer),
		})
	}
	return orders, r.rejected, nil
}

func parseOrderItems(raw *RawTable, spec TableSpec) ([]OrderItem, Rejections, error) {
	r, err := newTableReader(raw, spec)
	if err != nil {
		return nil, nil, err
	}

	hasItemID := r.has(ColOrderItemID)
	items := make([]OrderItem, 0, len(raw.Records))
	for i, rec := range raw.Records {
		orderID := r.value(rec, ColOrderID)
		if orderID == "" {
			r.reject(i+1, "", ColOrderID, ReasonMissingKey, nil)
			continue
		}

		price, err := parsePrice(r.value(rec, ColPrice))
		if err != nil {
			r.reject(i+1, orderID, ColPrice, ReasonInvalidPrice, err)
			continue
		}

		itemID := 0
		if hasItemID {
			if s := r.value(rec, ColOrderItemID); s != "" {
				itemID, err = strconv.Atoi(s)
				if err != nil {
					r.reject(i+1, orderID, ColOrderItemID, ReasonInvalidItemID, err)
					continue
				}
			}
		}

		items = append(items, OrderItem{
			OrderID:     orderID,
			OrderItemID: itemID,
			ProductID:   r.value(rec, ColProductID),
			Price:       price,
		})
	}

	if err := r.checkTyped(ColPrice); err != nil {
		return nil, nil, err
	}
	return items, r.rejected, nil
}

func parseProducts(raw *RawTable, spec TableSpec) ([]Product, Rejections, error) {
	r, err := newTableReader(raw, spec)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]struct{}, len(raw.Records))
	products := make([]Product, 0, len(raw.Records))
	for i, rec := range raw.Records {
		id := r.value(rec, ColProductID)
		if id == "" {
			r.reject(i+1, "", ColProductID, ReasonMissingKey, nil)
			continue
		}
		if _, dup := seen[id]; dup {
			r.reject(i+1, id, ColProductID, ReasonDuplicateKey, nil)
			continue
		}
		seen[id] = struct{}{}

		products = append(products, Product{
			ProductID:    id,
			CategoryName: r.value(rec, ColCategoryName),
		})
	}
	return products, r.rejected, nil
}

func parseCustomers(raw *RawTable, spec TableSpec) ([]Customer, Rejections, error) {
	r, err := newTableReader(raw, spec)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]struct{}, len(raw.Records))
	customers := make([]Customer, 0, len(raw.Records))
	for i, rec := range raw.Records {
		id := r.value(rec, ColCustomerID)
		if id == "" {
			r.reject(i+1, "", ColCustomerID, ReasonMissingKey, nil)
			continue
		}
		if _, dup := seen[id]; dup {
			r.reject(i+1, id, ColCustomerID, ReasonDuplicateKey, nil)
			continue
		}
		seen[id] = struct{}{}

		customers = append(customers, Customer{
			CustomerID: id,
			State:      strings.ToUpper(r.value(rec, ColCustomerState)),
		})
	}
	return customers, r.rejected, nil
}

func parseReviews(raw *RawTable, spec TableSpec) ([]Review, Rejections, error) {
	r, err := newTableReader(raw, spec)
	if err != nil {
		return nil, nil, err
	}

	reviews := make([]Review, 0, len(raw.Records))
	for i, rec := range raw.Records {
		orderID := r.value(rec, ColOrderID)
		if orderID == "" {
			r.reject(i+1, "", ColOrderID, ReasonMissingKey, nil)
			continue
		}

		score, err := parseScore(r.value(rec, ColReviewScore))
		if err != nil {
			r.reject(i+1, orderID, ColReviewScore, ReasonInvalidScore, err)
			continue
		}

		reviews = append(reviews, Review{OrderID: orderID, Score: score})
	}

	if err := r.checkTyped(ColReviewScore); err != nil {
		return nil, nil, err
	}
	return reviews, r.rejected, nil
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty price")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price %s", s)
	}
	return price, nil
}

func parseScore(s string) (int, error) {
	score, err := strconv.Atoi(s)
	if err != nil {
		// Scores are sometimes exported as floats ("4.0").
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("not an integer: %q", s)
		}
		score = int(f)
	}
	if score < 1 || score > 5 {
		return 0, fmt.Errorf("score %d outside 1-5", score)
	}
	return score, nil
}
