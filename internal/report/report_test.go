package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/pgEdge/pgedge-salesmetrics/internal/metrics"
	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

func testReport(withBreakdowns bool) *Report {
	table := sales.Table{
		{OrderID: "O1", Price: decimal.NewFromInt(100), OrderStatus: "delivered",
			PurchasedAt: time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC)},
		{OrderID: "O2", Price: decimal.NewFromInt(150), OrderStatus: "delivered",
			PurchasedAt: time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	table[1].CategoryName.V, table[1].CategoryName.Valid = "toys", true

	e := metrics.New(metrics.DefaultConfig())
	r := &Report{
		RunID:        "run-1",
		GeneratedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Source:       "/data",
		StatusFilter: "delivered",
		SalesRows:    len(table),
		Summary:      e.Summary(table),
	}
	if withBreakdowns {
		orders := sales.Orders{
			{OrderID: "O2", Status: "delivered", PurchasedAt: table[1].PurchasedAt},
			{OrderID: "O3", Status: "canceled", PurchasedAt: table[1].PurchasedAt},
		}
		b := e.Breakdowns(table, orders, 10)
		r.Breakdowns = &b
	}
	return r
}

func TestRegistry(t *testing.T) {
	expected := []string{"csv", "json", "table", "xlsx"}
	names := List()
	if len(names) != len(expected) {
		t.Fatalf("Expected %d formats, got %v", len(expected), names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Expected format %s at %d, got %s", name, i, names[i])
		}
		w, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", name, err)
		}
		if w.Name() != name || w.Description() == "" {
			t.Errorf("Writer %s has name %q and description %q", name, w.Name(), w.Description())
		}
	}

	if _, err := Get("pdf"); err == nil {
		t.Error("Expected error for unknown format, got nil")
	}
	if len(All()) != len(expected) {
		t.Errorf("Expected %d writers, got %d", len(expected), len(All()))
	}
}

func TestSections(t *testing.T) {
	if n := len(testReport(false).Sections()); n != 2 {
		t.Errorf("Expected 2 sections without breakdowns, got %d", n)
	}
	if n := len(testReport(true).Sections()); n != 7 {
		t.Errorf("Expected 7 sections with breakdowns, got %d", n)
	}
}

func TestTableWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Render("table", "", &buf, testReport(true)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sales metrics 2023 vs 2022", "total_revenue", "150.00", "0.5000", "n/a", "toys"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Render("json", "", &buf, testReport(false)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var decoded struct {
		Summary    map[string]any `json:"summary"`
		Breakdowns any            `json:"breakdowns"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Summary["revenue_growth"] != 0.5 {
		t.Errorf("Expected revenue_growth 0.5, got %v", decoded.Summary["revenue_growth"])
	}
	if v, ok := decoded.Summary["avg_monthly_growth"]; !ok || v != nil {
		t.Errorf("Expected null avg_monthly_growth, got %v", v)
	}
	if decoded.Breakdowns != nil {
		t.Errorf("Expected breakdowns to be omitted, got %v", decoded.Breakdowns)
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := Render("csv", "", &buf, testReport(false)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	cr := csv.NewReader(&buf)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	// Summary header + 9 rows, monthly header + 12 rows.
	if len(records) != 23 {
		t.Fatalf("Expected 23 records, got %d", len(records))
	}
	if records[0][0] != "section" || records[1][0] != "Summary" {
		t.Errorf("Unexpected leading records: %v, %v", records[0], records[1])
	}
	for _, rec := range records {
		if rec[0] == "Summary" && rec[1] == "avg_monthly_growth" && rec[2] != "" {
			t.Errorf("Expected empty field for undefined value, got %q", rec[2])
		}
	}
}

func TestXLSXRequiresOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Render("xlsx", "", &buf, testReport(false)); err == nil {
		t.Error("Expected error writing xlsx to stdout, got nil")
	}
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := Render("xlsx", path, nil, testReport(true)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 7 || sheets[0] != "Summary" {
		t.Errorf("Unexpected sheets: %v", sheets)
	}

	v, err := f.GetCellValue("Summary", "A4")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if v != "total_revenue" {
		t.Errorf("Expected total_revenue in A4, got %q", v)
	}
	v, _ = f.GetCellValue("Summary", "B4")
	if v != "150" {
		t.Errorf("Expected 150 in B4, got %q", v)
	}
}
