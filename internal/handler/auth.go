package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/accountd/internal/metrics"
	"github.com/msomdec/accountd/internal/service"
)

// AuthHandler handles registration, login and identity requests.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *metrics.Registry
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, m *metrics.Registry) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: m}
}

// HandleRegister processes a JSON registration request.
// POST /api/users/register
// Request:  {"username":"...","password":"..."}
// Response: 201 {"data": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	h.metrics.ObserveAuth("register", outcome(err))
	if err != nil {
		writeServiceError(w, "register user", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"data": toUserDTO(user),
	})
}

// HandleLogin processes a JSON login request.
// POST /api/users/login
// Request:  {"username":"...","password":"..."}
// Response: {"data": {"token":"...","tokenType":"Bearer","expiresAt":"..."}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	h.metrics.ObserveAuth("login", outcome(err))
	if err != nil {
		writeServiceError(w, "login user", err)
		return
	}

	token := TokenDTO{Token: result.Token, TokenType: "Bearer"}
	if !result.ExpiresAt.IsZero() {
		exp := result.ExpiresAt.Format(time.RFC3339)
		token.ExpiresAt = &exp
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": token,
	})
}

// HandleMe returns the identity carried by the caller's token.
// GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "missing bearer token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": toIdentityDTO(identity),
	})
}
