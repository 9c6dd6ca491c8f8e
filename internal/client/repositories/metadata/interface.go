// Package metadata is the client-local key/value table. The credential slot
// lives here under a fixed key.
package metadata

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no row.
var ErrNotFound = errors.New("metadata key not found")

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
