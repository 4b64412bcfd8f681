//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
	"time"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestFakerID(t *testing.T) {
	f := NewFaker()
	id := f.ID()
	if len(id) != 32 {
		t.Errorf("ID should be 32 chars, got %d: %s", len(id), id)
	}
	if id == f.ID() {
		t.Error("ID returned the same value twice")
	}
}

func TestFakerStateAbr(t *testing.T) {
	f := NewFaker()
	state := f.StateAbr()
	if len(state) != 2 {
		t.Errorf("StateAbr should return 2 chars, got: %s", state)
	}
}

func TestFakerProductCategory(t *testing.T) {
	f := NewFaker()
	if f.ProductCategory() == "" {
		t.Error("ProductCategory returned empty string")
	}
}

func TestFakerPrice(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		p := f.Price(10, 100)
		if p < 10 || p > 100 {
			t.Errorf("Price %f not in range [10, 100]", p)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	d := f.DateRange(start, end)
	if d.Before(start) || d.After(end) {
		t.Errorf("Date %v not in range [%v, %v]", d, start, end)
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(10, 20)
		if v < 10 || v > 20 {
			t.Errorf("Int(10, 20) returned %d", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(0.5, 1.5)
		if v < 0.5 || v > 1.5 {
			t.Errorf("Float64(0.5, 1.5) returned %f", v)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 100; i++ {
		chosen := Choose(f, items)
		found := false
		for _, item := range items {
			if item == chosen {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned item not in slice: %s", chosen)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	var items []string

	chosen := Choose(f, items)
	if chosen != "" {
		t.Errorf("Choose on empty slice should return zero value, got: %s", chosen)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}
	weights := []int{1, 2, 7} // c should be chosen ~70% of the time

	counts := make(map[string]int)
	iterations := 1000

	for i := 0; i < iterations; i++ {
		chosen := ChooseWeighted(f, items, weights)
		counts[chosen]++
	}

	// c should be most common
	if counts["c"] < counts["a"] || counts["c"] < counts["b"] {
		t.Errorf("Weighted choice distribution unexpected: %v", counts)
	}
}

func TestChooseWeightedEmpty(t *testing.T) {
	f := NewFaker()
	var items []string
	var weights []int

	chosen := ChooseWeighted(f, items, weights)
	if chosen != "" {
		t.Errorf("ChooseWeighted on empty slices should return zero value, got: %s", chosen)
	}
}

func TestFakerNullableString(t *testing.T) {
	f := NewFaker()

	// Test with 0% null probability
	for i := 0; i < 10; i++ {
		s := f.NullableString("test", 0.0)
		if s != "test" {
			t.Error("NullableString with 0% probability should always return string")
		}
	}

	// Test with 100% null probability
	for i := 0; i < 10; i++ {
		s := f.NullableString("test", 1.0)
		if s != "" {
			t.Error("NullableString with 100% probability should always return empty")
		}
	}
}

func BenchmarkChooseWeighted(b *testing.B) {
	f := NewFaker()
	items := []string{"a", "b", "c"}
	weights := []int{1, 2, 7}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ChooseWeighted(f, items, weights)
	}
}
