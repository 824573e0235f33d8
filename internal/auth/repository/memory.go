package repository

import (
	"context"
	"sync"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
)

// MemoryCredentialStore keeps users in process memory. Save checks and
// inserts under one lock, so two concurrent saves of the same identity
// cannot both succeed.
type MemoryCredentialStore struct {
	mu         sync.RWMutex
	byUsername map[string]domain.User
	emails     map[string]string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byUsername: make(map[string]domain.User),
		emails:     make(map[string]string),
	}
}

func (s *MemoryCredentialStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	if owner, ok := s.emails[email]; ok {
		return s.byUsername[owner], nil
	}
	return domain.User{}, ErrUserNotFound
}

func (s *MemoryCredentialStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byUsername[username]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *MemoryCredentialStore) Save(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[user.Username]; ok {
		return ErrIdentityAlreadyExists
	}
	if _, ok := s.emails[user.Email]; ok {
		return ErrIdentityAlreadyExists
	}

	s.byUsername[user.Username] = user
	s.emails[user.Email] = user.Username
	return nil
}

func (s *MemoryCredentialStore) Ping(context.Context) error {
	return nil
}

// Len reports how many users are stored.
func (s *MemoryCredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUsername)
}

var _ CredentialStore = (*MemoryCredentialStore)(nil)
