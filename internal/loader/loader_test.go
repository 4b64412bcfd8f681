package loader

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-salesmetrics/internal/metrics"
	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

func TestLoadAllData(t *testing.T) {
	l := newTestLoader(t, baseFixture())

	ds, err := l.LoadAllData(context.Background())
	if err != nil {
		t.Fatalf("LoadAllData failed: %v", err)
	}

	counts := ds.RowCounts()
	expected := map[string]int{
		TableOrders:     4,
		TableOrderItems: 5,
		TableProducts:   3,
		TableCustomers:  2,
		TableReviews:    3,
	}
	for table, want := range expected {
		if counts[table] != want {
			t.Errorf("Expected %d rows in %s, got %d", want, table, counts[table])
		}
	}
	if ds.Rejected.Count() != 0 {
		t.Errorf("Expected no rejected rows, got %d", ds.Rejected.Count())
	}
	if ds.Customers[1].State != "RJ" {
		t.Errorf("Expected state to be upper-cased, got %q", ds.Customers[1].State)
	}
}

func TestLoadAllDataMissingFile(t *testing.T) {
	f := baseFixture()
	delete(f, "products_dataset.csv")
	l := newTestLoader(t, f)

	_, err := l.LoadAllData(context.Background())
	var dsErr *DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("Expected DataSourceError, got %v", err)
	}
	if dsErr.Table != TableProducts {
		t.Errorf("Expected table %s, got %s", TableProducts, dsErr.Table)
	}
}

func TestLoadAllDataCompressed(t *testing.T) {
	f := baseFixture()
	f["orders_dataset.csv.sz"] = f["orders_dataset.csv"]
	delete(f, "orders_dataset.csv")
	l := newTestLoader(t, f)

	ds, err := l.LoadAllData(context.Background())
	if err != nil {
		t.Fatalf("LoadAllData failed: %v", err)
	}
	if len(ds.Orders) != 4 {
		t.Errorf("Expected 4 orders from compressed file, got %d", len(ds.Orders))
	}
}

func TestLoadAllDataSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		body   string
		table  string
		column string
	}{
		{
			name:   "missing required column",
			file:   "order_items_dataset.csv",
			body:   "order_id,product_id\nO1,P1\n",
			table:  TableOrderItems,
			column: ColPrice,
		},
		{
			name:  "empty file",
			file:  "customers_dataset.csv",
			body:  "",
			table: TableCustomers,
		},
		{
			name:   "price column not numeric",
			file:   "order_items_dataset.csv",
			body:   "order_id,product_id,price\nO1,P1,abc\nO2,P2,xyz\n",
			table:  TableOrderItems,
			column: ColPrice,
		},
		{
			name:   "review score column not numeric",
			file:   "order_reviews_dataset.csv",
			body:   "order_id,review_score\nO1,great\n",
			table:  TableReviews,
			column: ColReviewScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := baseFixture()
			f[tt.file] = tt.body
			l := newTestLoader(t, f)

			_, err := l.LoadAllData(context.Background())
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Expected SchemaError, got %v", err)
			}
			if schemaErr.Table != tt.table {
				t.Errorf("Expected table %s, got %s", tt.table, schemaErr.Table)
			}
			if schemaErr.Column != tt.column {
				t.Errorf("Expected column %q, got %q", tt.column, schemaErr.Column)
			}
		})
	}
}

func TestLoadAllDataRejectsRows(t *testing.T) {
	f := baseFixture()
	f["order_items_dataset.csv"] = "order_id,product_id,price\nO1,P1,100\nO2,P1,-5\n,P2,10\nO3,P2,n/a\n"
	f["orders_dataset.csv"] += "O1,C9,delivered,2022-01-01 00:00:00,\n"
	l := newTestLoader(t, f)

	ds, err := l.LoadAllData(context.Background())
	if err != nil {
		t.Fatalf("LoadAllData failed: %v", err)
	}
	if len(ds.OrderItems) != 1 {
		t.Errorf("Expected 1 order item, got %d", len(ds.OrderItems))
	}
	if len(ds.Orders) != 4 {
		t.Errorf("Expected duplicate order to be dropped, got %d orders", len(ds.Orders))
	}

	summary := ds.Rejected.Summary()
	if summary["order_items: "+ReasonInvalidPrice] != 2 {
		t.Errorf("Expected 2 invalid prices, got %d", summary["order_items: "+ReasonInvalidPrice])
	}
	if summary["order_items: "+ReasonMissingKey] != 1 {
		t.Errorf("Expected 1 missing key, got %d", summary["order_items: "+ReasonMissingKey])
	}
	if summary["orders: "+ReasonDuplicateKey] != 1 {
		t.Errorf("Expected 1 duplicate key, got %d", summary["orders: "+ReasonDuplicateKey])
	}
}

func TestLoadAllDataHeaderWithBOM(t *testing.T) {
	f := baseFixture()
	f["customers_dataset.csv"] = "\ufeffcustomer_id,customer_state\nC1,SP\n"
	l := newTestLoader(t, f)

	ds, err := l.LoadAllData(context.Background())
	if err != nil {
		t.Fatalf("LoadAllData failed: %v", err)
	}
	if len(ds.Customers) != 1 || ds.Customers[0].CustomerID != "C1" {
		t.Errorf("Unexpected customers: %+v", ds.Customers)
	}
}

func TestBuildSales(t *testing.T) {
	l := newTestLoader(t, baseFixture())

	res, err := l.BuildSales(context.Background(), DefaultStatusFilter)
	if err != nil {
		t.Fatalf("BuildSales failed: %v", err)
	}

	// O3 is canceled, so four delivered line items remain.
	if len(res.Sales) != 4 {
		t.Fatalf("Expected 4 sales rows, got %d", len(res.Sales))
	}

	byItem := make(map[string]sales.Record)
	for _, r := range res.Sales {
		byItem[r.OrderID+"/"+r.ProductID] = r
	}

	o1 := byItem["O1/P1"]
	if !o1.Price.Equal(decimal.RequireFromString("100")) {
		t.Errorf("Expected price 100, got %s", o1.Price)
	}
	if o1.Year() != 2022 || o1.Month() != 3 {
		t.Errorf("Expected 2022-03, got %d-%d", o1.Year(), o1.Month())
	}
	if !o1.DeliverySpeedDays.Valid || o1.DeliverySpeedDays.V != 1 {
		t.Errorf("Expected delivery speed 1 day, got %+v", o1.DeliverySpeedDays)
	}
	if o1.CustomerState.V != "SP" || o1.CategoryName.V != "toys" || o1.ReviewScore.V != 5 {
		t.Errorf("Unexpected enrichment for O1: %+v", o1)
	}

	o2 := byItem["O2/P2"]
	if o2.DeliverySpeedDays.V != 10 {
		t.Errorf("Expected delivery speed 10 days, got %d", o2.DeliverySpeedDays.V)
	}
	if o2.ReviewScore.V != 3 {
		t.Errorf("Expected first review score 3, got %d", o2.ReviewScore.V)
	}

	o4 := byItem["O4/P3"]
	if o4.DeliverySpeedDays.Valid {
		t.Errorf("Expected null delivery speed, got %d", o4.DeliverySpeedDays.V)
	}
	if o4.CustomerState.Valid || o4.CategoryName.Valid || o4.ReviewScore.Valid {
		t.Errorf("Expected null enrichment for O4, got %+v", o4)
	}
}

func TestBuildSalesEmptyFilter(t *testing.T) {
	l := newTestLoader(t, baseFixture())
	if _, err := l.BuildSales(context.Background(), "  "); err == nil {
		t.Error("Expected error for empty status filter, got nil")
	}
}

func TestBuildSalesKeepsEveryOrderStatus(t *testing.T) {
	f := baseFixture()
	f["orders_dataset.csv"] += "O5,C2,shipped,2023-06-01 09:00:00,\n" +
		"O6,C2,shipped,not a time,\n"
	l := newTestLoader(t, f)

	res, err := l.BuildSales(context.Background(), DefaultStatusFilter)
	if err != nil {
		t.Fatalf("BuildSales failed: %v", err)
	}

	for _, r := range res.Sales {
		if r.OrderStatus != DefaultStatusFilter {
			t.Errorf("Expected only delivered sales rows, got %s", r.OrderStatus)
		}
	}

	// O6 has no readable purchase time.
	if len(res.Orders) != 5 {
		t.Fatalf("Expected 5 order headers, got %d", len(res.Orders))
	}

	status := metrics.New(metrics.DefaultConfig()).
		Breakdowns(res.Sales, res.Orders, 0).OrderStatus
	want := map[string]int{"delivered": 2, "canceled": 1, "shipped": 1}
	if len(status) != len(want) {
		t.Fatalf("Expected %d statuses, got %+v", len(want), status)
	}
	for _, st := range status {
		if want[st.Status] != st.Orders {
			t.Errorf("Status %s: expected %d orders, got %d", st.Status, want[st.Status], st.Orders)
		}
	}
	if status[0].Status != "delivered" {
		t.Errorf("Expected delivered first, got %s", status[0].Status)
	}
}
