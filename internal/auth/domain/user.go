package domain

import (
	"fmt"
	"time"
)

type UserID string

// User is a persisted credential record. It is created once at registration
// and never mutated.
type User struct {
	ID           UserID    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// String omits PasswordHash so records can be logged safely.
func (u User) String() string {
	return fmt.Sprintf("User{ID:%s Username:%s Email:%s CreatedAt:%s}",
		u.ID, u.Username, u.Email, u.CreatedAt.Format(time.RFC3339))
}

func (u User) GoString() string {
	return u.String()
}
