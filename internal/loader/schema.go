//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package loader

// Table names.
const (
	TableOrders     = "orders"
	TableOrderItems = "order_items"
	TableProducts   = "products"
	TableCustomers  = "customers"
	TableReviews    = "reviews"
)

// Source column names.
const (
	ColOrderID           = "order_id"
	ColCustomerID        = "customer_id"
	ColOrderStatus       = "order_status"
	ColPurchaseTimestamp = "order_purchase_timestamp"
	ColDeliveredCustomer = "order_delivered_customer_date"
	ColOrderItemID       = "order_item_id"
	ColProductID         = "product_id"
	ColPrice             = "price"
	ColCategoryName      = "product_category_name"
	ColCustomerState     = "customer_state"
	ColReviewScore       = "review_score"
)

// TableSpec describes one source table: its logical name, the file that
// holds it in a file-based source, and its columns.
type TableSpec struct {
	Name     string
	File     string
	Required []string
	Optional []string
}

// Columns returns required columns followed by optional ones.
func (s TableSpec) Columns() []string {
	cols := make([]string, 0, len(s.Required)+len(s.Optional))
	cols = append(cols, s.Required...)
	return append(cols, s.Optional...)
}

// Tables lists every table the pipeline loads, in load order.
var Tables = []TableSpec{
	{
		Name: TableOrders,
		File: "orders_dataset.csv",
		Required: []string{
			ColOrderID, ColCustomerID, ColOrderStatus,
			ColPurchaseTimestamp, ColDeliveredCustomer,
		},
	},
	{
		Name:     TableOrderItems,
		File:     "order_items_dataset.csv",
		Required: []string{ColOrderID, ColProductID, ColPrice},
		Optional: []string{ColOrderItemID},
	},
	{
		Name:     TableProducts,
		File:     "products_dataset.csv",
		Required: []string{ColProductID, ColCategoryName},
	},
	{
		Name:     TableCustomers,
		File:     "customers_dataset.csv",
		Required: []string{ColCustomerID, ColCustomerState},
	},
	{
		Name:     TableReviews,
		File:     "order_reviews_dataset.csv",
		Required: []string{ColOrderID, ColReviewScore},
	},
}

// Spec returns the table spec for name.
func Spec(name string) (TableSpec, bool) {
	for _, s := range Tables {
		if s.Name == name {
			return s, true
		}
	}
	return TableSpec{}, false
}
