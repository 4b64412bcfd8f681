//-------------------------------------------------------------------------
//
// pgEdge Sales Metrics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package storage provides read access to the object stores that hold the
// source dataset files.
package storage

import (
	"context"
	"errors"
	"io"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrReadFailed     = errors.New("read failed")
)

// ObjectStore abstracts the location of dataset files.
// Implementations include a local directory and S3.
type ObjectStore interface {
	// Open returns a reader for the object at path, or ErrObjectNotFound.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Location describes where path resolves to, for logs and errors.
	Location(path string) string
}
