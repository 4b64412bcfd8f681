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
	"encoding/json"
	"fmt"
	"io"
)

func init() {
	Register(&JSONWriter{})
}

// JSONWriter emits the report as indented JSON. Undefined metrics are null.
type JSONWriter struct{}

// Name returns the format name.
func (j *JSONWriter) Name() string { return "json" }

// Description returns the format description.
func (j *JSONWriter) Description() string { return "JSON document with fixed key names" }

// Binary reports false.
func (j *JSONWriter) Binary() bool { return false }

// Write encodes r.
func (j *JSONWriter) Write(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
