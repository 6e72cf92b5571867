// Package filestore defines the unified interface for FTS document
// sources.
//
// All providers (local directory trees, MinIO/S3 staging buckets)
// implement the Store interface. Callers depend only on this package —
// never on a specific provider package. A store is rooted at
// construction (a directory or a bucket); keys are forward-slash paths
// relative to that root.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("/data/cms/medicare")
//	store, err := local.New(cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	files, err := store.List(ctx, "2015/")
package filestore

import "context"

// Store is the single interface all FTS document sources implement.
// Scoped to read operations: the pipeline never writes to a source.
type Store interface {
	// Ping verifies the source is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// List returns every file under prefix, recursively. Keys use
	// forward slashes and are relative to the store root.
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// Open returns a streaming handle to the file at key.
	// The caller MUST call Close() after reading.
	Open(ctx context.Context, key string) (File, error)

	// Stat returns metadata for the file at key without opening it.
	Stat(ctx context.Context, key string) (*FileInfo, error)
}
