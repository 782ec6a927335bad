package handler

import (
	"net/http"
	"strconv"

	"github.com/msomdec/accountd/internal/domain"
	"github.com/msomdec/accountd/internal/service"
)

// UserHandler handles user listing and self-service account changes.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleList returns every user along with the caller's identity.
// GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "missing bearer token")
		return
	}

	users, err := h.users.List(r.Context(), identity)
	if err != nil {
		writeServiceError(w, "list users", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"signedUser": toIdentityDTO(identity),
		"data":       toUserDTOs(users),
	})
}

// HandleGet returns a single user.
// GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.target(w, r)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), identity, id)
	if err != nil {
		writeServiceError(w, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": toUserDTO(user),
	})
}

// HandleUpdate replaces the caller's username and password.
// PUT /api/users/{id}
// Request: {"username":"...","password":"..."}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Update(r.Context(), identity, id, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, "update user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": toUserDTO(user),
	})
}

// HandleDelete removes the caller's own account.
// DELETE /api/users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), identity, id); err != nil {
		writeServiceError(w, "delete user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "user deleted successfully",
	})
}

// target resolves the caller and the {id} path value, writing the error
// response itself when either is missing.
func (h *UserHandler) target(w http.ResponseWriter, r *http.Request) (domain.Identity, int64, bool) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "missing bearer token")
		return domain.Identity{}, 0, false
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return domain.Identity{}, 0, false
	}
	return identity, id, true
}
