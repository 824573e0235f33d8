package service_test

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	"github.com/AlibekovAA/credential-service/internal/auth/repository"
	"github.com/AlibekovAA/credential-service/internal/auth/service"
	"github.com/AlibekovAA/credential-service/internal/common/clock"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

type mockStore struct {
	findByUsernameOrEmailFunc func(ctx context.Context, username, email string) (domain.User, error)
	findByUsernameFunc        func(ctx context.Context, username string) (domain.User, error)
	saveFunc                  func(ctx context.Context, user domain.User) error

	findCalls atomic.Int32
	saveCalls atomic.Int32
}

func (m *mockStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	m.findCalls.Add(1)
	if m.findByUsernameOrEmailFunc != nil {
		return m.findByUsernameOrEmailFunc(ctx, username, email)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	m.findCalls.Add(1)
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockStore) Save(ctx context.Context, user domain.User) error {
	m.saveCalls.Add(1)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, user)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error

	hashCalls    atomic.Int32
	compareCalls atomic.Int32
}

func (m *mockHasher) Hash(password string) (string, error) {
	m.hashCalls.Add(1)
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed-value", nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	m.compareCalls.Add(1)
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "user-123", nil
}

type testDeps struct {
	store  *mockStore
	hasher *mockHasher
	ids    *mockIDGenerator
	clock  *clock.MockClock
}

func setupAuthService(t *testing.T) (*service.AuthService, *testDeps) {
	t.Helper()

	deps := &testDeps{
		store:  &mockStore{},
		hasher: &mockHasher{},
		ids:    &mockIDGenerator{},
		clock:  clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
	}

	svc := service.NewAuthService(service.AuthServiceDeps{
		Store:       deps.store,
		Hasher:      deps.hasher,
		IDGenerator: deps.ids,
		Clock:       deps.clock,
		Log:         testLog(),
	})

	return svc, deps
}

func testLog() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "test", "debug")
}
