// Package credentials persists the bearer token in a single client-local
// slot. Every Store holds at most one credential; Save overwrites it.
package credentials

import (
	"context"
	"errors"
)

// DefaultKey is the slot name used when none is configured.
const DefaultKey = "token"

// ErrNoCredential is returned by Load when the slot is empty. A stored
// empty string counts as empty.
var ErrNoCredential = errors.New("no credential stored")

// Store is the storage adapter behind the session guard.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}
