//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AlibekovAA/credential-service/internal/common/db"
)

func TestPgCredentialStore_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("auth"),
		postgres.WithUsername("auth"),
		postgres.WithPassword("auth"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	databaseURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, db.MigratePostgres(Migrations, PostgresMigrationsDir, databaseURL))

	pool, err := db.NewPool(ctx, testLogger(), databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPgCredentialStore(pool, testLogger())

	storeContract(t, func(t *testing.T) CredentialStore {
		_, err := pool.Exec(ctx, "TRUNCATE users")
		require.NoError(t, err)
		return store
	})
}
