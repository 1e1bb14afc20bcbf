package credentials

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database only when TEST_DATABASE_URL is set.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestPostgresStore_CreateGet(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()
	username := "pg-" + uuid.NewString()

	_, err := store.Get(ctx, username)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, store.Create(ctx, User{Username: username, PasswordHash: "d1"}))
	assert.ErrorIs(t, store.Create(ctx, User{Username: username, PasswordHash: "d2"}), ErrUsernameTaken)

	user, err := store.Get(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, "d1", user.PasswordHash)

	assert.NoError(t, store.Ping(ctx))
}
