package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/models"
)

// InMemoryRepository keeps users in process memory. Returned users are
// copies.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; ok {
		return ErrAlreadyExists
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrAlreadyExists
	}

	u.CreatedAt = time.Now().UTC()
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := r.byEmail[u.Email]; taken && owner != u.ID {
		return ErrAlreadyExists
	}

	delete(r.byEmail, cur.Email)
	cur.Email = u.Email
	cur.FullName = u.FullName
	cur.ProfileType = u.ProfileType
	cur.Company = u.Company
	cur.Country = u.Country
	cur.FirmType = u.FirmType
	cur.MarketRegion = u.MarketRegion
	r.byID[u.ID] = cur
	r.byEmail[cur.Email] = cur.ID
	return nil
}
