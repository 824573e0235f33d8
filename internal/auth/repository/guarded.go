package repository

import (
	"context"
	"errors"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	"github.com/AlibekovAA/credential-service/internal/common/db"
)

// GuardedStore runs every call of the wrapped store through a circuit
// breaker. Not-found and conflict results are answers, not faults, and
// never trip the breaker. Neither does a caller cancelling its own context.
type GuardedStore struct {
	next CredentialStore
	cb   *db.DBCircuitBreaker
}

func NewGuardedStore(next CredentialStore, cb *db.DBCircuitBreaker) *GuardedStore {
	return &GuardedStore{next: next, cb: cb}
}

func (g *GuardedStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	var user domain.User
	err := g.call(ctx, func(ctx context.Context) error {
		var err error
		user, err = g.next.FindByUsernameOrEmail(ctx, username, email)
		return err
	})
	return user, err
}

func (g *GuardedStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := g.call(ctx, func(ctx context.Context) error {
		var err error
		user, err = g.next.FindByUsername(ctx, username)
		return err
	})
	return user, err
}

func (g *GuardedStore) Save(ctx context.Context, user domain.User) error {
	return g.call(ctx, func(ctx context.Context) error {
		return g.next.Save(ctx, user)
	})
}

// Ping bypasses the breaker so health checks see the real store state.
func (g *GuardedStore) Ping(ctx context.Context) error {
	if p, ok := g.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (g *GuardedStore) call(ctx context.Context, fn func(context.Context) error) error {
	var answer error
	err := g.cb.Call(ctx, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrIdentityAlreadyExists) {
			answer = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return answer
}

var _ CredentialStore = (*GuardedStore)(nil)
