//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package report

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Writer)
	mu       sync.RWMutex
)

// Register adds a writer to the registry.
func Register(w Writer) {
	mu.Lock()
	defer mu.Unlock()
	registry[w.Name()] = w
}

// Get retrieves a writer by format name.
func Get(name string) (Writer, error) {
	mu.RLock()
	defer mu.RUnlock()

	w, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown report format: %s", name)
	}
	return w, nil
}

// List returns all registered format names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered writers, sorted by name.
func All() []Writer {
	mu.RLock()
	defer mu.RUnlock()

	writers := make([]Writer, 0, len(registry))
	for _, w := range registry {
		writers = append(writers, w)
	}
	sort.Slice(writers, func(i, j int) bool {
		return writers[i].Name() < writers[j].Name()
	})
	return writers
}
