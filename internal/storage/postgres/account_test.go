package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/duality-rp/duality/internal/storage/postgres"
	"github.com/duality-rp/duality/internal/testutil"
)

func TestHashPassword(t *testing.T) {
	hash, err := postgres.HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := postgres.HashPassword("mypassword")
	assert.NoError(t, err)
	assert.True(t, postgres.CheckPassword("mypassword", hash))
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := postgres.HashPassword("mypassword")
	assert.NoError(t, err)
	assert.False(t, postgres.CheckPassword("wrongpassword", hash))
}

// Property: HashPassword always produces a hash that CheckPassword verifies.
func TestPropertyHashAndCheck(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// bcrypt has a max input length of 72 bytes
		password := rapid.StringMatching(`[a-zA-Z0-9!@#$%^&*]{1,64}`).Draw(t, "password")
		hash, err := postgres.HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword failed: %v", err)
		}
		if !postgres.CheckPassword(password, hash) {
			t.Fatalf("CheckPassword failed for password %q", password)
		}
	})
}

func TestAccountRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	ctx := context.Background()
	repo := postgres.NewAccountRepository(pc.RawPool)

	acct, err := repo.Create(ctx, "tarl", "swordofkoroba")
	require.NoError(t, err)
	assert.NotZero(t, acct.ID)
	assert.Equal(t, "tarl", acct.Username)
	assert.NotEqual(t, "swordofkoroba", acct.PasswordHash)

	_, err = repo.Create(ctx, "tarl", "other")
	assert.ErrorIs(t, err, postgres.ErrAccountExists)

	got, err := repo.Authenticate(ctx, "tarl", "swordofkoroba")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	_, err = repo.Authenticate(ctx, "tarl", "wrong")
	assert.ErrorIs(t, err, postgres.ErrInvalidCredentials)

	_, err = repo.Authenticate(ctx, "nobody", "x")
	assert.ErrorIs(t, err, postgres.ErrAccountNotFound)
}
