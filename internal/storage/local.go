package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage implements ObjectStore over a local directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage returns a store rooted at basePath, which must be an
// existing directory.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("data path not found: %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data path is not a directory: %s", basePath)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Open opens a file under the base path.
func (l *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.fullPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return f, nil
}

// Exists checks if a file exists under the base path.
func (l *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(l.fullPath(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Location returns the filesystem path for path.
func (l *LocalStorage) Location(path string) string {
	return l.fullPath(path)
}

func (l *LocalStorage) fullPath(path string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(path))
}
