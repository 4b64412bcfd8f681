package cli

import (
	"context"
	"fmt"

	"github.com/pgEdge/pgedge-salesmetrics/internal/config"
	"github.com/pgEdge/pgedge-salesmetrics/internal/db"
	"github.com/pgEdge/pgedge-salesmetrics/internal/loader"
	"github.com/pgEdge/pgedge-salesmetrics/internal/storage"
)

// openSource builds the table source selected by the configuration. The
// returned close function releases any connection it holds.
func openSource(ctx context.Context, c *config.Config) (loader.Source, func(), error) {
	switch c.Source {
	case config.SourceLocal:
		store, err := storage.NewLocalStorage(c.DataPath)
		if err != nil {
			return nil, nil, err
		}
		return loader.NewFileSource(store), func() {}, nil

	case config.SourceS3:
		store, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:       c.S3.Bucket,
			Prefix:       c.DataPath,
			Region:       c.S3.Region,
			Endpoint:     c.S3.Endpoint,
			UsePathStyle: c.S3.UsePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return loader.NewFileSource(store), func() {}, nil

	case config.SourcePostgres:
		pool, err := db.Connect(ctx, c.Connection)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db.NewTableSource(pool), pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown source: %s", c.Source)
}
