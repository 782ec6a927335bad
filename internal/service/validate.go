package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/msomdec/accountd/internal/auth"
	"github.com/msomdec/accountd/internal/domain"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// credentials is the shape shared by registration and account updates.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username,
			validation.Required,
			validation.Length(3, 64),
			validation.Match(usernamePattern).Error("may only contain letters, digits, '.', '_' and '-'"),
		),
		validation.Field(&c.Password,
			validation.Required,
			validation.Length(6, 0),
			validation.By(maxBytes(auth.MaxPasswordBytes)),
		),
	)
}

func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes", n)
		}
		return nil
	}
}

func validateCredentials(username, password string) error {
	if err := (credentials{Username: username, Password: password}).Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// ensureUsernameFree reports ErrUsernameTaken when another account
// (anything but exceptID) already owns username.
func ensureUsernameFree(ctx context.Context, users domain.UserRepository, username string, exceptID int64) error {
	existing, err := users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("get user by username: %w", err)
	case existing.ID != exceptID:
		return domain.ErrUsernameTaken
	}
	return nil
}
