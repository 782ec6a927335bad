package handler

import (
	"time"

	"github.com/msomdec/accountd/internal/domain"
)

// UserDTO is the JSON representation of a user. It never carries the
// password digest.
type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// IdentityDTO is the JSON representation of a verified caller.
type IdentityDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func toIdentityDTO(id domain.Identity) IdentityDTO {
	return IdentityDTO{ID: id.UserID, Username: id.Username}
}

// TokenDTO is the body of a successful login.
type TokenDTO struct {
	Token     string  `json:"token"`
	TokenType string  `json:"tokenType"`
	ExpiresAt *string `json:"expiresAt"`
}

// LogEntryDTO is the JSON representation of an activity log entry.
type LogEntryDTO struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

func toLogEntryDTOs(entries []domain.LogEntry) []LogEntryDTO {
	dtos := make([]LogEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LogEntryDTO{
			ID:        e.ID,
			Message:   e.Message,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return dtos
}

// credentialsRequest is the body of register, login and update calls.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
