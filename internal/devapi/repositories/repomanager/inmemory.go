package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. WithTx
// serialises callers; there is no rollback.
type InMemoryRepositoryManager struct {
	txMu  sync.Mutex
	users *users.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, users users.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m.users)
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
