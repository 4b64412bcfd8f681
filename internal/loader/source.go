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
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/golang/snappy"

	"github.com/pgEdge/pgedge-salesmetrics/internal/storage"
)

// CompressedSuffix marks a snappy-framed dataset file.
const CompressedSuffix = ".sz"

// RawTable is a table as read from a source, before coercion.
type RawTable struct {
	Name    string
	Origin  string
	Header  []string
	Records [][]string
}

// Source reads raw tables.
type Source interface {
	// ReadTable reads the table described by spec. A missing or unreadable
	// table is reported as a *DataSourceError.
	ReadTable(ctx context.Context, spec TableSpec) (*RawTable, error)

	// Describe returns a short description of the source for logs.
	Describe() string
}

// FileSource reads CSV tables from an object store. A file stored as
// <name>.sz is decoded with snappy framing.
type FileSource struct {
	store storage.ObjectStore
}

// NewFileSource creates a file source over store.
func NewFileSource(store storage.ObjectStore) *FileSource {
	return &FileSource{store: store}
}

// Describe returns the store location.
func (s *FileSource) Describe() string {
	return s.store.Location("")
}

// ReadTable reads and parses one CSV file.
func (s *FileSource) ReadTable(ctx context.Context, spec TableSpec) (*RawTable, error) {
	name, compressed, err := s.resolve(ctx, spec.File)
	if err != nil {
		return nil, &DataSourceError{Table: spec.Name, Path: s.store.Location(spec.File), Err: err}
	}

	rc, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, &DataSourceError{Table: spec.Name, Path: s.store.Location(name), Err: err}
	}
	defer rc.Close()

	var r io.Reader = rc
	if compressed {
		r = snappy.NewReader(rc)
	}

	origin := s.store.Location(name)
	header, records, err := readCSV(r)
	if err != nil {
		return nil, &DataSourceError{Table: spec.Name, Path: origin, Err: err}
	}

	return &RawTable{
		Name:    spec.Name,
		Origin:  origin,
		Header:  header,
		Records: records,
	}, nil
}

// resolve picks the plain file, or its compressed variant when only that
// exists.
func (s *FileSource) resolve(ctx context.Context, file string) (string, bool, error) {
	ok, err := s.store.Exists(ctx, file)
	if err != nil {
		return "", false, err
	}
	if ok {
		return file, false, nil
	}

	ok, err = s.store.Exists(ctx, file+CompressedSuffix)
	if err != nil {
		return "", false, err
	}
	if ok {
		return file + CompressedSuffix, true, nil
	}
	return "", false, fmt.Errorf("required file not found: %w", storage.ErrObjectNotFound)
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("unparsable header: %w", err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("unparsable file: %w", err)
		}
		records = append(records, rec)
	}
	return header, records, nil
}
