package repositories_test

import (
	"context"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(setupTestDB(t))

	user := &models.User{Username: "clerk", Email: "clerk@example.com", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "clerk")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "clerk@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "clerk", byID.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	dup := &models.User{Username: "clerk", Email: "other@example.com", Password: "hashed"}
	assert.Error(t, repo.Create(ctx, dup))
}
