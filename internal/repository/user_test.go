package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/iglesia/api/internal/database"
	"github.com/forgo/iglesia/api/internal/model"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	t.Parallel()
	repo := NewUserRepository(database.NewMemoryStore())
	ctx := context.Background()

	user := &model.User{Email: "Ana@Example.com", DisplayName: "Ana", PasswordHash: "hash", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "ana@example.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)
}

func TestUserRepository_Missing_ReturnsNil(t *testing.T) {
	t.Parallel()
	repo := NewUserRepository(database.NewMemoryStore())
	ctx := context.Background()

	user, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_Create_SameEmailTwice(t *testing.T) {
	t.Parallel()
	repo := NewUserRepository(database.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Email: "ana@example.com", CreatedAt: time.Now()}))
	err := repo.Create(ctx, &model.User{Email: "ANA@example.com", CreatedAt: time.Now()})

	assert.ErrorIs(t, err, database.ErrAlreadyExists)
}

func TestUserRepository_Create_AnonymousUsersGetDistinctIDs(t *testing.T) {
	t.Parallel()
	repo := NewUserRepository(database.NewMemoryStore())
	ctx := context.Background()

	a := model.NewAnonymousUser(time.Now())
	b := model.NewAnonymousUser(time.Now())
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	assert.NotEqual(t, a.ID, b.ID)
}
