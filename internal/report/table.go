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
	"io"
	"strings"
	"text/tabwriter"
)

func init() {
	Register(&TableWriter{})
}

// TableWriter prints aligned plain-text tables.
type TableWriter struct{}

// Name returns the format name.
func (t *TableWriter) Name() string { return "table" }

// Description returns the format description.
func (t *TableWriter) Description() string { return "Aligned text tables (default)" }

// Binary reports false.
func (t *TableWriter) Binary() bool { return false }

// Write renders every section as an aligned table.
func (t *TableWriter) Write(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "Sales metrics %d vs %d (status %s, %d sales rows)\n",
		r.Summary.AnalysisYear, r.Summary.ComparisonYear, r.StatusFilter, r.SalesRows)
	if r.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", r.Source)
	}

	for _, sec := range r.Sections() {
		fmt.Fprintf(w, "\n%s\n%s\n", sec.Name, strings.Repeat("-", len(sec.Name)))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.ToUpper(strings.Join(sec.Header, "\t")))
		for _, row := range sec.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = formatCell(v, "n/a")
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}

	if len(r.DroppedRows) > 0 {
		total := 0
		for _, n := range r.DroppedRows {
			total += n
		}
		fmt.Fprintf(w, "\n%d source rows were dropped during loading\n", total)
	}
	return nil
}
