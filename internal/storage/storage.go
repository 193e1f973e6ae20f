// Package storage persists uploaded asset bytes under generated names.
// Two backends exist: local disk (default) and S3-compatible object
// storage when a bucket is configured.
package storage

import (
	"context"
	"io"
)

type Store interface {
	// Save streams r into the object called name. Implementations must not
	// leave a partial object behind when the copy fails.
	Save(ctx context.Context, name string, r io.Reader) error

	// Remove deletes the object. Removing a missing object is not an error.
	Remove(ctx context.Context, name string) error
}
