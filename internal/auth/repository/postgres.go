package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	"github.com/AlibekovAA/credential-service/internal/common/db"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

const (
	pgStoreLabel         = "postgres"
	pgUniqueViolation    = "23505"
	selectUserColumns    = `SELECT id::text, username, email, password_hash, created_at FROM users `
	insertUserStatement  = `INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`
	findByIdentityClause = `WHERE username = $1 OR email = $2 LIMIT 1`
	findByUsernameClause = `WHERE username = $1`
)

// PgQuerier is the part of *pgxpool.Pool the store needs.
type PgQuerier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Ping(ctx context.Context) error
}

type PgCredentialStore struct {
	db    PgQuerier
	log   *logger.Logger
	retry db.RetryConfig
}

func NewPgCredentialStore(q PgQuerier, log *logger.Logger) *PgCredentialStore {
	return &PgCredentialStore{db: q, log: log, retry: db.DefaultRetryConfig}
}

func (r *PgCredentialStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	return r.findOne(ctx, "find user by identity", selectUserColumns+findByIdentityClause, username, email)
}

func (r *PgCredentialStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find user by username", selectUserColumns+findByUsernameClause, username)
}

// Save is not retried: a retried insert that had in fact committed would be
// reported as a conflict.
func (r *PgCredentialStore) Save(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.db.Exec(
		ctx,
		insertUserStatement,
		string(user.ID),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			err = ErrIdentityAlreadyExists
		}
	}
	return db.HandleExecError(err, pgStoreLabel, "save user", start, ErrIdentityAlreadyExists)
}

func (r *PgCredentialStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PgCredentialStore) findOne(ctx context.Context, operation, query string, args ...interface{}) (domain.User, error) {
	var user domain.User
	err := db.RetryWithBackoff(ctx, r.log, r.retry, func() error {
		start := time.Now()
		var id string
		scanErr := r.db.QueryRow(ctx, query, args...).Scan(
			&id,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.CreatedAt,
		)
		user.ID = domain.UserID(id)
		return db.HandleQueryError(scanErr, pgx.ErrNoRows, ErrUserNotFound, pgStoreLabel, operation, start)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

var _ CredentialStore = (*PgCredentialStore)(nil)
