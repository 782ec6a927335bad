package service

import (
	"context"
	"fmt"

	"github.com/msomdec/accountd/internal/auth"
	"github.com/msomdec/accountd/internal/domain"
)

// UserService handles reads and self-service changes to user records.
// Every method takes the caller identity resolved by RequireAuth; update
// and delete are only allowed on the caller's own record.
type UserService struct {
	users  domain.UserRepository
	logs   domain.ActivityLog
	hasher *auth.Hasher
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, logs domain.ActivityLog, hasher *auth.Hasher) *UserService {
	return &UserService{users: users, logs: logs, hasher: hasher}
}

// List returns all users ordered by ID.
func (s *UserService) List(ctx context.Context, caller domain.Identity) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if err := appendLog(ctx, s.logs, "user %s listed users", caller.Username); err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns a single user by ID.
func (s *UserService) Get(ctx context.Context, caller domain.Identity, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := appendLog(ctx, s.logs, "user %s read user %s", caller.Username, user.Username); err != nil {
		return nil, err
	}
	return user, nil
}

// Update replaces the caller's username and password.
func (s *UserService) Update(ctx context.Context, caller domain.Identity, id int64, username, password string) (*domain.User, error) {
	if caller.UserID != id {
		return nil, fmt.Errorf("%w: users may only update their own account", domain.ErrForbidden)
	}
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.Username != username {
		if err := ensureUsernameFree(ctx, s.users, username, id); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := appendLog(ctx, s.logs, "user %s updated user %d", caller.Username, id); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the caller's own account. Tokens already issued for it
// stay verifiable until they expire.
func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id int64) error {
	if caller.UserID != id {
		return fmt.Errorf("%w: users may only delete their own account", domain.ErrForbidden)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return appendLog(ctx, s.logs, "user %s deleted user %d", caller.Username, id)
}
