//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-salesmetrics/internal/loader"
)

// TableSource reads the sales tables from PostgreSQL. Values are fetched as
// text so the loader applies the same coercion rules as for CSV files.
type TableSource struct {
	pool *pgxpool.Pool
}

// NewTableSource creates a source over pool.
func NewTableSource(pool *pgxpool.Pool) *TableSource {
	return &TableSource{pool: pool}
}

// Describe returns the database location.
func (s *TableSource) Describe() string {
	return Describe(s.pool)
}

// ReadTable reads every row of the table named by spec. Columns of the spec
// that the table lacks are left out of the header so the loader reports
// them.
func (s *TableSource) ReadTable(ctx context.Context, spec loader.TableSpec) (*loader.RawTable, error) {
	origin := s.Describe() + "/" + spec.Name

	existing, err := s.columns(ctx, spec.Name)
	if err != nil {
		return nil, &loader.DataSourceError{Table: spec.Name, Path: origin, Err: err}
	}
	if len(existing) == 0 {
		return nil, &loader.DataSourceError{
			Table: spec.Name,
			Path:  origin,
			Err:   fmt.Errorf("table not found"),
		}
	}

	var header, selects []string
	for _, col := range spec.Columns() {
		if existing[col] {
			header = append(header, col)
			selects = append(selects, pgx.Identifier{col}.Sanitize()+"::text")
		}
	}
	if len(header) == 0 {
		return &loader.RawTable{Name: spec.Name, Origin: origin}, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(selects, ", "), pgx.Identifier{spec.Name}.Sanitize())
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, &loader.DataSourceError{Table: spec.Name, Path: origin, Err: err}
	}
	defer rows.Close()

	var records [][]string
	values := make([]pgtype.Text, len(header))
	dest := make([]any, len(header))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, &loader.DataSourceError{Table: spec.Name, Path: origin, Err: err}
		}
		rec := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				rec[i] = v.String
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &loader.DataSourceError{Table: spec.Name, Path: origin, Err: err}
	}

	return &loader.RawTable{
		Name:    spec.Name,
		Origin:  origin,
		Header:  header,
		Records: records,
	}, nil
}

func (s *TableSource) columns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT column_name FROM information_schema.columns
        WHERE table_schema = current_schema() AND table_name = $1
    `, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
