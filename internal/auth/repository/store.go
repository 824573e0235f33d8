package repository

import (
	"context"
	"errors"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrIdentityAlreadyExists = errors.New("username or email already exists")
)

// CredentialStore owns persisted user records. Implementations must make Save
// fail with ErrIdentityAlreadyExists when either the username or the email is
// already taken, independently of any lookup done beforehand.
type CredentialStore interface {
	FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	Save(ctx context.Context, user domain.User) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}
