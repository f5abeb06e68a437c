package auth

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by Repository lookups that match no account.
var ErrUserNotFound = errors.New("user not found")

// NewUser is an account about to be inserted. Email is already normalized.
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
}

// Repository persists accounts that own presentation history.
type Repository interface {
	// Insert stores the account or returns ErrEmailExists.
	Insert(ctx context.Context, user NewUser) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
}
