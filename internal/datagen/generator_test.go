package datagen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pgEdge/pgedge-salesmetrics/internal/loader"
	"github.com/pgEdge/pgedge-salesmetrics/internal/storage"
)

func loadDir(t *testing.T, dir string) *loader.Result {
	t.Helper()
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	res, err := loader.New(loader.NewFileSource(store)).BuildSales(context.Background(), loader.DefaultStatusFilter)
	if err != nil {
		t.Fatalf("BuildSales failed: %v", err)
	}
	return res
}

func TestGenerateLoadsCleanly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orders = 200
	cfg.Seed = 42
	dir := t.TempDir()

	counts, err := NewGenerator(cfg).Generate(context.Background(), dir)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if counts[loader.TableOrders] != 200 {
		t.Errorf("Expected 200 orders, got %d", counts[loader.TableOrders])
	}
	if counts[loader.TableOrderItems] < 200 {
		t.Errorf("Expected at least 200 order items, got %d", counts[loader.TableOrderItems])
	}

	res := loadDir(t, dir)
	if res.Rejected.Count() != 0 {
		t.Errorf("Expected no rejected rows, got %v", res.Rejected.Summary())
	}
	if len(res.Sales) == 0 {
		t.Fatal("Expected delivered sales rows")
	}
	for _, r := range res.Sales {
		if r.Year() < cfg.StartYear || r.Year() > cfg.EndYear {
			t.Fatalf("Purchase year %d outside %d-%d", r.Year(), cfg.StartYear, cfg.EndYear)
		}
		if !r.DeliverySpeedDays.Valid || r.DeliverySpeedDays.V < 0 {
			t.Fatalf("Expected a delivery speed for delivered order %s", r.OrderID)
		}
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orders = 50
	cfg.Seed = 7

	dirA, dirB := t.TempDir(), t.TempDir()
	if _, err := NewGenerator(cfg).Generate(context.Background(), dirA); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := NewGenerator(cfg).Generate(context.Background(), dirB); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, spec := range loader.Tables {
		a, err := os.ReadFile(filepath.Join(dirA, spec.File))
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, spec.File))
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("Table %s differs between runs with the same seed", spec.Name)
		}
	}
}

func TestGenerateCompressed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orders = 30
	cfg.Seed = 3
	cfg.Compress = true
	dir := t.TempDir()

	if _, err := NewGenerator(cfg).Generate(context.Background(), dir); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, spec := range loader.Tables {
		if _, err := os.Stat(filepath.Join(dir, spec.File+loader.CompressedSuffix)); err != nil {
			t.Errorf("Expected compressed file for %s: %v", spec.Name, err)
		}
	}

	res := loadDir(t, dir)
	if len(res.Dataset.Orders) != 30 {
		t.Errorf("Expected 30 orders, got %d", len(res.Dataset.Orders))
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.Orders = 10
	if _, err := NewGenerator(cfg).Generate(ctx, t.TempDir()); err == nil {
		t.Error("Expected error for cancelled context, got nil")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"no orders", func(c *Config) { c.Orders = 0 }, true},
		{"reversed years", func(c *Config) { c.StartYear, c.EndYear = 2024, 2023 }, true},
		{"single year", func(c *Config) { c.StartYear, c.EndYear = 2023, 2023 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("orders", 10, 3)
	for i := 0; i < 10; i++ {
		p.Update(1)
	}
	p.Done()
	if p.Rows() != 10 {
		t.Errorf("Expected 10 rows, got %d", p.Rows())
	}
}
