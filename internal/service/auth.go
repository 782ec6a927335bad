package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/accountd/internal/auth"
	"github.com/msomdec/accountd/internal/domain"
)

// AuthService handles registration, login, and bearer-token authorization.
type AuthService struct {
	users  domain.UserRepository
	logs   domain.ActivityLog
	hasher *auth.Hasher
	tokens *auth.TokenIssuer
	gate   *auth.Gate
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time // zero when tokens do not expire
	Identity  domain.Identity
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, logs domain.ActivityLog, hasher *auth.Hasher, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		logs:   logs,
		hasher: hasher,
		tokens: tokens,
		gate:   auth.NewGate(tokens),
	}
}

// Register creates a new user account after validating inputs.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	if err := ensureUsernameFree(ctx, s.users, username, 0); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := appendLog(ctx, s.logs, "registered user %s", user.Username); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed bearer token.
//
// An unknown username and a wrong password fail with different errors
// (ErrNotRegistered, ErrPasswordMismatch). This lets a caller probe for
// existing usernames; collapsing them is pending a product decision.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		slog.Warn("login password mismatch", "user_id", user.ID)
		return nil, domain.ErrPasswordMismatch
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := appendLog(ctx, s.logs, "user %s logged in", user.Username); err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		Identity:  domain.Identity{UserID: user.ID, Username: user.Username},
	}, nil
}

// RequireAuth resolves an Authorization header to the caller's identity.
// Every failure wraps domain.ErrUnauthorized and the specific cause
// (missing, malformed, invalid or expired credential).
func (s *AuthService) RequireAuth(header string) (domain.Identity, error) {
	identity, err := s.gate.Authorize(header)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return identity, nil
}

// TokenLifetime returns how long issued tokens stay valid.
func (s *AuthService) TokenLifetime() time.Duration {
	return s.tokens.Lifetime()
}
