package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/credential-service/internal/common/db"
)

func TestSQLiteCredentialStore(t *testing.T) {
	storeContract(t, func(t *testing.T) CredentialStore {
		return setupSQLiteStore(t)
	})
}

func TestSQLiteCredentialStore_Ping(t *testing.T) {
	store := setupSQLiteStore(t)
	require.NoError(t, store.Ping(context.Background()))
}

func TestSQLiteCredentialStore_MigrationsAreIdempotent(t *testing.T) {
	store := setupSQLiteStore(t)
	require.NoError(t, db.MigrateSQLite(store.db.Writer, Migrations, SQLiteMigrationsDir))
}

func TestSQLiteCredentialStore_FileDatabase(t *testing.T) {
	path := t.TempDir() + "/auth.db"

	d, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.MigrateSQLite(d.Writer, Migrations, SQLiteMigrationsDir))

	store := NewSQLiteCredentialStore(d)
	user := testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0b01", "alice", "alice@example.com")
	require.NoError(t, store.Save(context.Background(), user))
	require.NoError(t, d.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := NewSQLiteCredentialStore(reopened).FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestIsSQLiteUniqueViolation(t *testing.T) {
	assert.False(t, isSQLiteUniqueViolation(nil))
	assert.True(t, isSQLiteUniqueViolation(errString("constraint failed: UNIQUE constraint failed: users.email (2067)")))
	assert.False(t, isSQLiteUniqueViolation(errString("database is locked")))
}

type errString string

func (e errString) Error() string { return string(e) }
