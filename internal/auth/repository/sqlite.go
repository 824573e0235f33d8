package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	"github.com/AlibekovAA/credential-service/internal/common/constants"
	"github.com/AlibekovAA/credential-service/internal/common/db"
)

const sqliteStoreLabel = "sqlite"

// SQLiteDB pairs a single writer connection with a small reader pool so
// concurrent registrations queue on the writer instead of failing with
// "database is locked".
type SQLiteDB struct {
	Writer *sql.DB
	Reader *sql.DB
}

// OpenSQLite opens path in WAL mode. The DSN may also be a full
// "file:...?..." URI, which is used as is.
func OpenSQLite(path string) (*SQLiteDB, error) {
	dsn := path
	if !strings.HasPrefix(path, "file:") {
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
			path,
			constants.SQLiteBusyTimeoutMs,
		)
	}

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.Ping(); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(constants.SQLiteMaxReaderConns)

	if err := reader.Ping(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &SQLiteDB{Writer: writer, Reader: reader}, nil
}

// Close closes both pools and returns the first error.
func (d *SQLiteDB) Close() error {
	var firstErr error
	if err := d.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := d.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}
	return firstErr
}

type SQLiteCredentialStore struct {
	db *SQLiteDB
}

func NewSQLiteCredentialStore(d *SQLiteDB) *SQLiteCredentialStore {
	return &SQLiteCredentialStore{db: d}
}

func (r *SQLiteCredentialStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	const query = `SELECT id, username, email, password_hash, created_at FROM users WHERE username = ? OR email = ? LIMIT 1`
	return r.findOne(ctx, "find user by identity", query, username, email)
}

func (r *SQLiteCredentialStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`
	return r.findOne(ctx, "find user by username", query, username)
}

func (r *SQLiteCredentialStore) Save(ctx context.Context, user domain.User) error {
	const query = `INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Writer.ExecContext(
		ctx,
		query,
		string(user.ID),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if isSQLiteUniqueViolation(err) {
		err = ErrIdentityAlreadyExists
	}
	return db.HandleExecError(err, sqliteStoreLabel, "save user", start, ErrIdentityAlreadyExists)
}

func (r *SQLiteCredentialStore) Ping(ctx context.Context) error {
	if err := r.db.Writer.PingContext(ctx); err != nil {
		return fmt.Errorf("ping writer: %w", err)
	}
	if err := r.db.Reader.PingContext(ctx); err != nil {
		return fmt.Errorf("ping reader: %w", err)
	}
	return nil
}

func (r *SQLiteCredentialStore) findOne(ctx context.Context, operation, query string, args ...any) (domain.User, error) {
	start := time.Now()

	var (
		user      domain.User
		id        string
		createdAt string
	)
	err := r.db.Reader.QueryRowContext(ctx, query, args...).Scan(
		&id,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&createdAt,
	)
	if err := db.HandleQueryError(err, sql.ErrNoRows, ErrUserNotFound, sqliteStoreLabel, operation, start); err != nil {
		return domain.User{}, err
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("parse created_at: %w", err)
	}

	user.ID = domain.UserID(id)
	user.CreatedAt = created
	return user, nil
}

func isSQLiteUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ CredentialStore = (*SQLiteCredentialStore)(nil)
