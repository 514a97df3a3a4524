package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserRepo() (*UserRepo, *fakeDynamo) {
	f := newFakeDynamo(map[string]string{"users": "user_id", "user_emails": "email"})
	return NewUserRepo(f, "users", "user_emails"), f
}

func testUser(id, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		UserID:       id,
		Username:     "alice",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	repo, _ := newTestUserRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testUser("u1", "a@example.com")))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	byEmail, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.UserID)
}

func TestUserRepo_CreateDuplicateEmail(t *testing.T) {
	repo, f := newTestUserRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testUser("u1", "a@example.com")))

	err := repo.Create(ctx, testUser("u2", "a@example.com"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotContains(t, f.tables["users"], "u2")
}

func TestUserRepo_GetMissing(t *testing.T) {
	repo, _ := newTestUserRepo()
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_Update(t *testing.T) {
	repo, _ := newTestUserRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testUser("u1", "a@example.com")))

	got, err := repo.Update(ctx, "u1", map[string]interface{}{"username": "alicia", "mfa_enabled": true})
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Username)
	assert.True(t, got.MFAEnabled)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestUserRepo_UpdateMissing(t *testing.T) {
	repo, f := newTestUserRepo()
	_, err := repo.Update(context.Background(), "ghost", map[string]interface{}{"username": "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.tables["users"])
}

func TestUserRepo_DeleteReleasesEmail(t *testing.T) {
	repo, _ := newTestUserRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testUser("u1", "a@example.com")))

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, repo.Create(ctx, testUser("u2", "a@example.com")))
}

func TestUserRepo_StoreErrorPropagates(t *testing.T) {
	repo, f := newTestUserRepo()
	f.err = errors.New("connection reset")
	_, err := repo.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
