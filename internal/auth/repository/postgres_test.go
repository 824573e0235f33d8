package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	"github.com/AlibekovAA/credential-service/internal/common/db"
)

type mockRow struct {
	user domain.User
	err  error
}

func (r mockRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = string(r.user.ID)
	*dest[1].(*string) = r.user.Username
	*dest[2].(*string) = r.user.Email
	*dest[3].(*string) = r.user.PasswordHash
	*dest[4].(*time.Time) = r.user.CreatedAt
	return nil
}

type mockQuerier struct {
	execFunc     func(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	queryRowFunc func(ctx context.Context, sql string, args ...interface{}) pgx.Row
	pingFunc     func(ctx context.Context) error
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	if m.execFunc != nil {
		return m.execFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag("INSERT 0 1"), nil
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if m.queryRowFunc != nil {
		return m.queryRowFunc(ctx, sql, args...)
	}
	return mockRow{err: pgx.ErrNoRows}
}

func (m *mockQuerier) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func newTestPgStore(q PgQuerier) *PgCredentialStore {
	store := NewPgCredentialStore(q, testLogger())
	store.retry = db.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1,
	}
	return store
}

func TestPgCredentialStore_FindByUsername(t *testing.T) {
	user := testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0c01", "alice", "alice@example.com")
	var gotArgs []interface{}

	store := newTestPgStore(&mockQuerier{
		queryRowFunc: func(_ context.Context, _ string, args ...interface{}) pgx.Row {
			gotArgs = args
			return mockRow{user: user}
		},
	})

	got, err := store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user, got)
	assert.Equal(t, []interface{}{"alice"}, gotArgs)
}

func TestPgCredentialStore_FindByUsernameOrEmail_PassesBothKeys(t *testing.T) {
	var (
		gotSQL  string
		gotArgs []interface{}
	)
	store := newTestPgStore(&mockQuerier{
		queryRowFunc: func(_ context.Context, sql string, args ...interface{}) pgx.Row {
			gotSQL = sql
			gotArgs = args
			return mockRow{err: pgx.ErrNoRows}
		},
	})

	_, err := store.FindByUsernameOrEmail(context.Background(), "alice", "alice@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, gotSQL, "username = $1 OR email = $2")
	assert.Equal(t, []interface{}{"alice", "alice@example.com"}, gotArgs)
}

func TestPgCredentialStore_RetriesTransientReadErrors(t *testing.T) {
	user := testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0c02", "alice", "alice@example.com")
	calls := 0

	store := newTestPgStore(&mockQuerier{
		queryRowFunc: func(context.Context, string, ...interface{}) pgx.Row {
			calls++
			if calls == 1 {
				return mockRow{err: &pgconn.PgError{Code: "40001"}}
			}
			return mockRow{user: user}
		},
	})

	got, err := store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 2, calls)
}

func TestPgCredentialStore_ReadFaultIsNotNotFound(t *testing.T) {
	store := newTestPgStore(&mockQuerier{
		queryRowFunc: func(context.Context, string, ...interface{}) pgx.Row {
			return mockRow{err: errors.New("connection reset by peer")}
		},
	})

	_, err := store.FindByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestPgCredentialStore_Save(t *testing.T) {
	user := testUser("6f1c1c36-6e7e-4a4b-9a55-0d2b1c1e0c03", "alice", "alice@example.com")

	t.Run("inserts every column", func(t *testing.T) {
		var gotArgs []interface{}
		store := newTestPgStore(&mockQuerier{
			execFunc: func(_ context.Context, _ string, args ...interface{}) (pgconn.CommandTag, error) {
				gotArgs = args
				return pgconn.CommandTag("INSERT 0 1"), nil
			},
		})

		require.NoError(t, store.Save(context.Background(), user))
		assert.Equal(t, []interface{}{string(user.ID), user.Username, user.Email, user.PasswordHash, user.CreatedAt}, gotArgs)
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		store := newTestPgStore(&mockQuerier{
			execFunc: func(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
				return nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
			},
		})

		err := store.Save(context.Background(), user)
		assert.ErrorIs(t, err, ErrIdentityAlreadyExists)
	})

	t.Run("other errors are wrapped and not retried", func(t *testing.T) {
		calls := 0
		store := newTestPgStore(&mockQuerier{
			execFunc: func(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
				calls++
				return nil, &pgconn.PgError{Code: "08006"}
			},
		})

		err := store.Save(context.Background(), user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrIdentityAlreadyExists)
		assert.Equal(t, 1, calls)
	})
}

func TestPgCredentialStore_Ping(t *testing.T) {
	down := errors.New("down")
	store := newTestPgStore(&mockQuerier{
		pingFunc: func(context.Context) error { return down },
	})

	assert.ErrorIs(t, store.Ping(context.Background()), down)
}
