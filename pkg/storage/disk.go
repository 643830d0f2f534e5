// Package storage is a small filesystem abstraction with two drivers:
//   - "local" writes under STORAGE_LOCAL_ROOT
//   - "s3" writes to any S3-compatible bucket (AWS, MinIO, R2)
//
// The catalog export writes its snapshots through it:
//
//	disk, err := storage.Use("s3")
//	err = disk.Put(ctx, "exports/catalog.json", data, "application/json")
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Get for a missing path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is implemented by every storage driver. Paths are slash separated
// and relative to the disk root.
type Disk interface {
	Put(ctx context.Context, path string, content []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error

	// List returns every file below prefix, recursively.
	List(ctx context.Context, prefix string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}
