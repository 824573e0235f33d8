package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/AlibekovAA/credential-service/internal/common/constants"
)

// ErrPasswordMismatch is returned by Compare when the password is wrong.
// Any other error from Compare means the stored hash could not be used.
var ErrPasswordMismatch = errors.New("password does not match hash")

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher produces salted bcrypt hashes. CompareHashAndPassword
// compares digests in constant time.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < constants.MinBcryptCost {
		cost = constants.MinBcryptCost
	}
	if cost > constants.MaxBcryptCost {
		cost = constants.MaxBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// bcryptInput keeps the bytes bcrypt actually uses. Longer passwords are
// accepted and cut, as other bcrypt implementations do.
func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > constants.BcryptMaxPasswordBytes {
		b = b[:constants.BcryptMaxPasswordBytes]
	}
	return b
}
