// Package storage persists whole collections as opaque objects.
package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Get when the key has never been written.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore reads and replaces whole objects by key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}
