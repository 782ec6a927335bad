package domain

import (
	"context"
	"time"
)

// User represents a registered account. PasswordHash holds the
// Hasher output and never leaves the service layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
// Create and Update return ErrUsernameTaken on a uniqueness violation;
// lookups return ErrNotFound; driver failures wrap ErrStoreUnavailable.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
