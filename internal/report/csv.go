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
	"encoding/csv"
	"fmt"
	"io"
)

func init() {
	Register(&CSVWriter{})
}

// CSVWriter emits every section as CSV rows prefixed with the section name.
// Undefined values are empty fields.
type CSVWriter struct{}

// Name returns the format name.
func (c *CSVWriter) Name() string { return "csv" }

// Description returns the format description.
func (c *CSVWriter) Description() string { return "CSV rows of section, columns" }

// Binary reports false.
func (c *CSVWriter) Binary() bool { return false }

// Write renders every section, each preceded by its own header row.
func (c *CSVWriter) Write(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	for _, sec := range r.Sections() {
		header := append([]string{"section"}, sec.Header...)
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		for _, row := range sec.Rows {
			rec := make([]string, 0, len(row)+1)
			rec = append(rec, sec.Name)
			for _, v := range row {
				rec = append(rec, formatCell(v, ""))
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write csv: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
