package crypto

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := NewBcryptHasher(10)

	hash, err := h.Hash("longpassword1")
	require.NoError(t, err)

	assert.NotEqual(t, "longpassword1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), "unexpected hash format %q", hash)
	assert.NoError(t, h.Compare(hash, "longpassword1"))
}

func TestBcryptHasher_MismatchIsDistinguished(t *testing.T) {
	h := NewBcryptHasher(10)

	hash, err := h.Hash("longpassword1")
	require.NoError(t, err)

	err = h.Compare(hash, "wrong")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestBcryptHasher_MalformedHashIsNotMismatch(t *testing.T) {
	h := NewBcryptHasher(10)

	err := h.Compare("not-a-bcrypt-hash", "whatever")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPasswordMismatch))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewBcryptHasher(10)

	first, err := h.Hash("samepassword")
	require.NoError(t, err)
	second, err := h.Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_LongPasswordUsesFirst72Bytes(t *testing.T) {
	h := NewBcryptHasher(10)
	password := strings.Repeat("p", 90)

	hash, err := h.Hash(password)
	require.NoError(t, err)

	assert.NoError(t, h.Compare(hash, password))
	assert.NoError(t, h.Compare(hash, strings.Repeat("p", 72)))
	assert.ErrorIs(t, h.Compare(hash, strings.Repeat("p", 71)), ErrPasswordMismatch)
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, 10, NewBcryptHasher(4).Cost())
	assert.Equal(t, 12, NewBcryptHasher(12).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).Cost())
}

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()

	id, err := g.NewID()
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	other, err := g.NewID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}
