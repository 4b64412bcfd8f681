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
	"sort"

	"github.com/pgEdge/pgedge-salesmetrics/internal/logging"
)

// DataSourceError reports a table that could not be read. It aborts the run.
type DataSourceError struct {
	Table string
	Path  string
	Err   error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source: table %s (%s): %v", e.Table, e.Path, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// SchemaError reports a table whose columns do not match its spec.
type SchemaError struct {
	Table  string
	Path   string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema: table %s (%s): %s", e.Table, e.Path, e.Reason)
	}
	return fmt.Sprintf("schema: table %s (%s): column %s: %s", e.Table, e.Path, e.Column, e.Reason)
}

// Reasons a row is dropped.
const (
	ReasonMissingKey         = "missing key"
	ReasonDuplicateKey       = "duplicate key"
	ReasonInvalidPrice       = "invalid price"
	ReasonInvalidScore       = "invalid review score"
	ReasonInvalidItemID      = "invalid order item id"
	ReasonMalformedTimestamp = "malformed timestamp"
)

// RecordDerivationError reports a single row dropped during loading or
// derivation. It never aborts the run.
type RecordDerivationError struct {
	Table  string
	Row    int // 1-based data row, header excluded
	Key    string
	Column string
	Reason string
	Err    error
}

func (e *RecordDerivationError) Error() string {
	msg := fmt.Sprintf("%s row %d", e.Table, e.Row)
	if e.Key != "" {
		msg += fmt.Sprintf(" (%s)", e.Key)
	}
	msg += fmt.Sprintf(": column %s: %s", e.Column, e.Reason)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *RecordDerivationError) Unwrap() error {
	return e.Err
}

// Rejections accumulates dropped rows.
type Rejections []RecordDerivationError

// Count returns the number of dropped rows.
func (r Rejections) Count() int {
	return len(r)
}

// Summary counts dropped rows per "table: reason".
func (r Rejections) Summary() map[string]int {
	out := make(map[string]int)
	for _, e := range r {
		out[e.Table+": "+e.Reason]++
	}
	return out
}

// Log writes one warning per table/reason pair and the individual rows at
// debug level.
func (r Rejections) Log() {
	if len(r) == 0 {
		return
	}
	for _, e := range r {
		logging.Debug().
			Str("table", e.Table).
			Int("row", e.Row).
			Str("key", e.Key).
			Str("column", e.Column).
			Err(e.Err).
			Msg(e.Reason)
	}

	summary := r.Summary()
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logging.Warn().
			Str("reason", k).
			Int("rows", summary[k]).
			Msg("Dropped rows")
	}
}
