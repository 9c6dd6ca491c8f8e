package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()
	u := sampleUser()

	require.NoError(t, r.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := r.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u, byEmail)

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	byID.FullName = "mutated"
	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", again.FullName)
}

func TestInMemoryRepository_Duplicates(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()
	require.NoError(t, r.Create(ctx, sampleUser()))

	dupEmail := sampleUser()
	dupEmail.ID = "other"
	assert.ErrorIs(t, r.Create(ctx, dupEmail), ErrAlreadyExists)

	dupID := sampleUser()
	dupID.Email = "other@acme.io"
	assert.ErrorIs(t, r.Create(ctx, dupID), ErrAlreadyExists)
}

func TestInMemoryRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	_, err := r.GetByEmail(ctx, "nobody@acme.io")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Update(ctx, sampleUser()), ErrNotFound)
}

func TestInMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()
	u := sampleUser()
	require.NoError(t, r.Create(ctx, u))

	other := sampleUser()
	other.ID = "other"
	other.Email = "other@acme.io"
	require.NoError(t, r.Create(ctx, other))

	upd := *u
	upd.Email = "jane@new.io"
	upd.Company = "NewCo"
	upd.PasswordHash = []byte("ignored")
	require.NoError(t, r.Update(ctx, &upd))

	_, err := r.GetByEmail(ctx, "jane@acme.io")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := r.GetByEmail(ctx, "jane@new.io")
	require.NoError(t, err)
	assert.Equal(t, "NewCo", got.Company)
	assert.Equal(t, []byte("hash"), got.PasswordHash)

	upd.Email = "other@acme.io"
	assert.ErrorIs(t, r.Update(ctx, &upd), ErrAlreadyExists)
}
