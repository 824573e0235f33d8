package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCredentialStore(t *testing.T) {
	storeContract(t, func(t *testing.T) CredentialStore {
		return NewMemoryCredentialStore()
	})
}

func TestMemoryCredentialStore_ConcurrentSaveOfSameIdentity(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Save(ctx, testUser(fmt.Sprintf("id-%d", i), "alice", fmt.Sprintf("alice%d@example.com", i)))
			switch err {
			case nil:
				succeeded.Add(1)
			case ErrIdentityAlreadyExists:
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryCredentialStore_CancelledContext(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, testUser("id", "alice", "alice@example.com"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())

	_, err = store.FindByUsername(ctx, "alice")
	require.ErrorIs(t, err, context.Canceled)
}
