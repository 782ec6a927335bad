package auth

import (
	"strings"

	"github.com/msomdec/accountd/internal/domain"
)

const bearerScheme = "Bearer"

// TokenVerifier recovers claims from a presented token.
type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

// Gate is the single place where an untrusted Authorization header
// becomes a trusted Identity. It is stateless and never consults the
// store, so claims may lag behind the current user record.
type Gate struct {
	verifier TokenVerifier
}

// NewGate creates a Gate backed by verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize resolves an Authorization header value of the form
// "Bearer <token>" to the caller's identity.
func (g *Gate) Authorize(header string) (domain.Identity, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return domain.Identity{}, domain.ErrMissingCredential
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return domain.Identity{}, domain.ErrMalformedToken
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return domain.Identity{}, domain.ErrMalformedToken
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
