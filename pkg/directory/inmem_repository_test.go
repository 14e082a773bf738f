package directory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryUserRepository_CreateAndGet(t *testing.T) {
	repo := NewInMemoryUserRepository()
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, CreateUserParams{
		Email: "user@example.com",
		Name:  "Some User",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, created.Role, "role defaults to user")

	got, err := repo.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestInMemoryUserRepository_GetMissing(t *testing.T) {
	repo := NewInMemoryUserRepository()

	_, err := repo.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInMemoryUserRepository_Update(t *testing.T) {
	repo := NewInMemoryUserRepository()
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, CreateUserParams{Email: "user@example.com", Name: "Before"})
	require.NoError(t, err)

	updated, err := repo.UpdateUser(ctx, UpdateUserParams{ID: created.ID, Name: "After", Role: RoleModerator})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, RoleModerator, updated.Role)

	// Empty fields leave existing values untouched
	updated, err = repo.UpdateUser(ctx, UpdateUserParams{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, RoleModerator, updated.Role)
}

func TestInMemoryUserRepository_DeleteHidesUser(t *testing.T) {
	repo := NewInMemoryUserRepository()
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, CreateUserParams{Email: "user@example.com"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteUser(ctx, created.ID))

	_, err = repo.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	users, err := repo.FindUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	assert.ErrorIs(t, repo.DeleteUser(ctx, created.ID), ErrUserNotFound)
}
