package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pvisualizer/internal/client/repositories/metadata"
)

// SQLiteStore keeps the raw token as one row of the local metadata table.
type SQLiteStore struct {
	repo metadata.Repository
	key  string
}

// NewSQLiteStore stores the credential under key in db's metadata table.
// db must have been migrated (see localdb.InitDatabase).
func NewSQLiteStore(db *sql.DB, key string) *SQLiteStore {
	return newSQLiteStore(metadata.NewSQLiteRepository(db), key)
}

func newSQLiteStore(repo metadata.Repository, key string) *SQLiteStore {
	if key == "" {
		key = DefaultKey
	}
	return &SQLiteStore{repo: repo, key: key}
}

func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, s.key)
	if errors.Is(err, metadata.ErrNotFound) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if len(v) == 0 {
		return "", ErrNoCredential
	}
	return string(v), nil
}

func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	if err := s.repo.Set(ctx, s.key, []byte(token)); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
