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

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func init() {
	Register(&XLSXWriter{})
}

// XLSXWriter writes one worksheet per section.
type XLSXWriter struct{}

// Name returns the format name.
func (x *XLSXWriter) Name() string { return "xlsx" }

// Description returns the format description.
func (x *XLSXWriter) Description() string { return "Excel workbook, one sheet per section" }

// Binary reports true: a workbook needs --output.
func (x *XLSXWriter) Binary() bool { return true }

// Write builds the workbook and writes it to w.
func (x *XLSXWriter) Write(w io.Writer, r *Report) error {
	f, err := x.Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook for r.
func (x *XLSXWriter) Workbook(r *Report) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sec := range r.Sections() {
		sheet := sec.Name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		for col, h := range sec.Header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, h)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}

		for rowIdx, row := range sec.Rows {
			for col, v := range row {
				if v == nil {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if d, ok := v.(decimal.Decimal); ok {
					v = d.InexactFloat64()
				}
				f.SetCellValue(sheet, cell, v)
			}
		}

		last, _ := excelize.ColumnNumberToName(len(sec.Header))
		f.SetColWidth(sheet, "A", last, 18)
	}

	return f, nil
}
