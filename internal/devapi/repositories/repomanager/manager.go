// Package repomanager vends the dev API repositories for one storage
// backend and runs multi-step changes atomically.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	// WithTx runs fn with repositories bound to one transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error
	Close() error
}
