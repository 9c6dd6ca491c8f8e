// Package users persists dev API accounts.
package users

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/models"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

type Repository interface {
	// Create stores u; ID and Email must be set. CreatedAt is filled in.
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Update overwrites the profile fields and email of the user u.ID.
	Update(ctx context.Context, u *models.User) error
}
