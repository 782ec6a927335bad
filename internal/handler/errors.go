package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/accountd/internal/domain"
)

// writeServiceError maps a service error onto a status code and a stable
// message. Unexpected errors are logged under op and never echoed.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already registered")
	case errors.Is(err, domain.ErrNotRegistered):
		writeUnauthorized(w, "username not registered")
	case errors.Is(err, domain.ErrPasswordMismatch):
		writeUnauthorized(w, "password does not match")
	case errors.Is(err, domain.ErrMissingCredential):
		writeUnauthorized(w, "missing bearer token")
	case errors.Is(err, domain.ErrMalformedToken):
		writeUnauthorized(w, "malformed bearer token")
	case errors.Is(err, domain.ErrTokenExpired):
		writeUnauthorized(w, "token expired")
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUnauthorized):
		writeUnauthorized(w, "invalid token")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "not allowed to modify another user")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		slog.Error(op, "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable, try again later")
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="accountd"`)
	writeError(w, http.StatusUnauthorized, message)
}

// outcome is the auth_attempts_total label for a register or login result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrUsernameTaken):
		return "conflict"
	case errors.Is(err, domain.ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return "password_mismatch"
	default:
		return "error"
	}
}
