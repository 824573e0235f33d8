package repository

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	"github.com/AlibekovAA/credential-service/internal/common/db"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "test", "debug")
}

func testUser(id, username, email string) domain.User {
	return domain.User{
		ID:           domain.UserID(id),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuXo8w3OeqmT0V8sT3V.tpnLlfyd0nGmW",
		CreatedAt:    time.Date(2024, 3, 1, 10, 30, 0, 123000000, time.UTC),
	}
}

// setupSQLiteStore opens a named shared in-memory database so the writer and
// reader pools see the same data. The name is derived from t.Name().
func setupSQLiteStore(t *testing.T) *SQLiteCredentialStore {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)",
		url.PathEscape(t.Name()),
	)

	d, err := OpenSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, db.MigrateSQLite(d.Writer, Migrations, SQLiteMigrationsDir))

	return NewSQLiteCredentialStore(d)
}

// storeContract runs the behaviour every CredentialStore must share.
func storeContract(t *testing.T, newStore func(t *testing.T) CredentialStore) {
	ctx := context.Background()

	t.Run("find on empty store", func(t *testing.T) {
		store := newStore(t)

		_, err := store.FindByUsername(ctx, "alice")
		require.ErrorIs(t, err, ErrUserNotFound)

		_, err = store.FindByUsernameOrEmail(ctx, "alice", "alice@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("save then find", func(t *testing.T) {
		store := newStore(t)
		user := testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0a01", "alice", "alice@example.com")

		require.NoError(t, store.Save(ctx, user))

		got, err := store.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.Equal(t, user.Username, got.Username)
		require.Equal(t, user.Email, got.Email)
		require.Equal(t, user.PasswordHash, got.PasswordHash)
		require.True(t, user.CreatedAt.Equal(got.CreatedAt))

		byEmail, err := store.FindByUsernameOrEmail(ctx, "someone-else", "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, "alice", byEmail.Username)

		byName, err := store.FindByUsernameOrEmail(ctx, "alice", "other@example.com")
		require.NoError(t, err)
		require.Equal(t, "alice", byName.Username)
	})

	t.Run("lookups are case sensitive", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0a02", "alice", "alice@example.com")))

		_, err := store.FindByUsername(ctx, "Alice")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0a03", "alice", "alice@example.com")))

		err := store.Save(ctx, testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0a04", "alice", "other@example.com"))
		require.ErrorIs(t, err, ErrIdentityAlreadyExists)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0a05", "alice", "alice@example.com")))

		err := store.Save(ctx, testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0a06", "bob", "alice@example.com"))
		require.ErrorIs(t, err, ErrIdentityAlreadyExists)

		_, err = store.FindByUsername(ctx, "bob")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
