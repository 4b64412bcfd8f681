//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic e-commerce datasets.
package datagen

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang/snappy"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-salesmetrics/internal/loader"
	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
	"github.com/pgEdge/pgedge-salesmetrics/internal/sales"
)

// Config configures dataset generation.
type Config struct {
	// Orders is the number of orders to generate.
	Orders int

	// Seed makes output reproducible. Zero picks a random seed.
	Seed uint64

	// StartYear and EndYear bound purchase times, inclusive.
	StartYear int
	EndYear   int

	// Compress writes snappy-framed <file>.sz files.
	Compress bool

	// ProgressInterval is how often to log progress (in orders).
	ProgressInterval int64
}

// DefaultConfig returns default generation settings.
func DefaultConfig() Config {
	return Config{
		Orders:           10000,
		StartYear:        2022,
		EndYear:          2023,
		ProgressInterval: 100000,
	}
}

// Validate checks the generation settings.
func (c Config) Validate() error {
	if c.Orders < 1 {
		return fmt.Errorf("orders must be at least 1")
	}
	if c.StartYear < 1970 || c.EndYear < c.StartYear {
		return fmt.Errorf("invalid year range %d-%d", c.StartYear, c.EndYear)
	}
	return nil
}

var (
	orderStatuses = []string{
		"delivered", "shipped", "canceled", "invoiced",
		"processing", "unavailable", "approved", "created",
	}
	orderStatusWeights = []int{90, 4, 2, 1, 1, 1, 1, 0}

	itemsPerOrder       = []int{1, 2, 3, 4}
	itemsPerOrderWeight = []int{80, 14, 4, 2}

	reviewScores       = []int{1, 2, 3, 4, 5}
	reviewScoreWeights = []int{11, 3, 8, 19, 59}
)

// Generator writes the five source tables as CSV files.
type Generator struct {
	cfg   Config
	faker *Faker
}

// NewGenerator creates a generator for cfg.
func NewGenerator(cfg Config) *Generator {
	f := NewFaker()
	if cfg.Seed != 0 {
		f = NewFakerWithSeed(cfg.Seed)
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultConfig().ProgressInterval
	}
	return &Generator{cfg: cfg, faker: f}
}

// dataset is the generated tables in file row form.
type dataset struct {
	orders    [][]string
	items     [][]string
	products  [][]string
	customers [][]string
	reviews   [][]string
}

// Generate writes the dataset into dir and returns the row count per table.
func (g *Generator) Generate(ctx context.Context, dir string) (map[string]int, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ds, err := g.build(ctx)
	if err != nil {
		return nil, err
	}

	tables := map[string][][]string{
		loader.TableOrders:     ds.orders,
		loader.TableOrderItems: ds.items,
		loader.TableProducts:   ds.products,
		loader.TableCustomers:  ds.customers,
		loader.TableReviews:    ds.reviews,
	}

	counts := make(map[string]int, len(tables))
	for _, spec := range loader.Tables {
		rows := tables[spec.Name]
		path := filepath.Join(dir, spec.File)
		if g.cfg.Compress {
			path += loader.CompressedSuffix
		}
		if err := writeTable(path, header(spec), rows, g.cfg.Compress); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", spec.Name, err)
		}
		counts[spec.Name] = len(rows)

		logging.Debug().
			Str("table", spec.Name).
			Str("path", path).
			Int("rows", len(rows)).
			Msg("Wrote table")
	}

	return counts, nil
}

func (g *Generator) build(ctx context.Context) (*dataset, error) {
	f := g.faker
	ds := &dataset{}

	customers := make([]string, max(1, g.cfg.Orders*9/10))
	for i := range customers {
		customers[i] = f.ID()
		ds.customers = append(ds.customers, []string{customers[i], f.StateAbr()})
	}

	products := make([]string, max(1, g.cfg.Orders/3))
	for i := range products {
		products[i] = f.ID()
		ds.products = append(ds.products, []string{products[i], f.NullableString(f.ProductCategory(), 0.02)})
	}

	start := time.Date(g.cfg.StartYear, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(g.cfg.EndYear+1, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Second)

	progress := NewProgressReporter(loader.TableOrders, int64(g.cfg.Orders), g.cfg.ProgressInterval)
	for i := 0; i < g.cfg.Orders; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		orderID := f.ID()
		status := ChooseWeighted(f, orderStatuses, orderStatusWeights)
		purchased := f.DateRange(start, end).Truncate(time.Second)

		delivered := ""
		if status == "delivered" {
			lead := time.Duration(f.Int(1, 40*24)) * time.Hour
			delivered = purchased.Add(lead).Format(sales.TimestampLayout)
		}

		ds.orders = append(ds.orders, []string{
			orderID,
			Choose(f, customers),
			status,
			purchased.Format(sales.TimestampLayout),
			delivered,
		})

		n := ChooseWeighted(f, itemsPerOrder, itemsPerOrderWeight)
		for item := 1; item <= n; item++ {
			price := decimal.NewFromFloat(f.Price(5, 500)).Round(2)
			ds.items = append(ds.items, []string{
				orderID,
				strconv.Itoa(item),
				Choose(f, products),
				price.StringFixed(2),
			})
		}

		if f.Float64(0, 1) < 0.9 {
			score := ChooseWeighted(f, reviewScores, reviewScoreWeights)
			ds.reviews = append(ds.reviews, []string{orderID, strconv.Itoa(score)})
		}

		progress.Update(1)
	}
	progress.Done()

	return ds, nil
}

// header returns the column order written for spec. Order items keep the
// source layout with order_item_id second.
func header(spec loader.TableSpec) []string {
	if spec.Name == loader.TableOrderItems {
		return []string{loader.ColOrderID, loader.ColOrderItemID, loader.ColProductID, loader.ColPrice}
	}
	return spec.Columns()
}

func writeTable(path string, header []string, rows [][]string, compress bool) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	var w io.Writer = file
	var sw *snappy.Writer
	if compress {
		sw = snappy.NewBufferedWriter(file)
		w = sw
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		file.Close()
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		file.Close()
		return err
	}

	if sw != nil {
		if err := sw.Close(); err != nil {
			file.Close()
			return err
		}
	}
	return file.Close()
}

// ProgressReporter tracks and reports data generation progress.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	if interval <= 0 {
		interval = 1
	}
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rows int64) {
	oldRow := p.currentRow
	p.currentRow += rows

	// Check if we crossed a progress interval
	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := 100.0
		if p.totalRows > 0 {
			pct = float64(p.currentRow) / float64(p.totalRows) * 100
		}
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Progress")
	}
}

// Rows returns the rows reported so far.
func (p *ProgressReporter) Rows() int64 {
	return p.currentRow
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}
