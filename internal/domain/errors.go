package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUsernameTaken    = errors.New("username already registered")
	ErrForbidden        = errors.New("forbidden")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Authentication failures. RequireAuth wraps every gate failure in
	// ErrUnauthorized while keeping the specific cause reachable via errors.Is.
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMissingCredential = errors.New("missing bearer credential")
	ErrMalformedToken    = errors.New("malformed token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrNotRegistered     = errors.New("username not registered")
	ErrPasswordMismatch  = errors.New("password does not match")
)
