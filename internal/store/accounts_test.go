package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlakar/zaloga/internal/apperror"
	"github.com/mlakar/zaloga/internal/db"
)

func TestCreateAndGetAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	acc, err := CreateAccount(ctx, database, "ana", "ana@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "ana", acc.Username)
	assert.Equal(t, "ana@example.com", acc.Email)

	byEmail, err := GetAccountByEmail(ctx, database, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateAccount(ctx, database, "ana", "ana@example.com", "hash")
	require.NoError(t, err)

	_, err = CreateAccount(ctx, database, "other", "ana@example.com", "hash")
	assert.True(t, apperror.Is(err, apperror.Conflict))
}

func TestCreateAccountDuplicateUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateAccount(ctx, database, "ana", "ana@example.com", "hash")
	require.NoError(t, err)

	_, err = CreateAccount(ctx, database, "ana", "other@example.com", "hash")
	assert.True(t, apperror.Is(err, apperror.Conflict))
}

func TestGetAccountByEmailNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := GetAccountByEmail(context.Background(), database, "nobody@example.com")
	assert.True(t, apperror.Is(err, apperror.NotFound))
}
