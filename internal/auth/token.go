package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/accountd/internal/domain"
)

// MinSecretLength is the shortest HMAC-SHA256 secret NewTokenIssuer accepts.
const MinSecretLength = 32

var ErrWeakSecret = fmt.Errorf("token secret must be at least %d bytes", MinSecretLength)

// Claims are the identity fields carried inside a bearer token.
type Claims struct {
	UserID    int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when no lifetime is configured
}

// tokenClaims is the wire form. Field order is fixed by the struct so
// the signed payload is reproducible.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 bearer tokens. The secret is
// read-only after construction, so one issuer can serve every request.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

// TokenOption configures a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(ti *TokenIssuer) {
		if now != nil {
			ti.now = now
		}
	}
}

// WithIssuer sets the iss claim and requires it on verification.
func WithIssuer(issuer string) TokenOption {
	return func(ti *TokenIssuer) {
		ti.issuer = issuer
	}
}

// NewTokenIssuer creates a TokenIssuer. A zero lifetime disables expiry.
func NewTokenIssuer(secret []byte, lifetime time.Duration, opts ...TokenOption) (*TokenIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if lifetime < 0 {
		return nil, fmt.Errorf("token lifetime must not be negative, got %s", lifetime)
	}

	ti := &TokenIssuer{
		secret:   append([]byte(nil), secret...),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(ti)
	}
	return ti, nil
}

// Lifetime returns the configured token lifetime.
func (ti *TokenIssuer) Lifetime() time.Duration {
	return ti.lifetime
}

// Issue signs a token binding userID and username. It also returns the
// token's exp claim, zero when tokens do not expire.
func (ti *TokenIssuer) Issue(userID int64, username string) (string, time.Time, error) {
	now := ti.now()
	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ti.issuer,
			Subject:  strconv.FormatInt(userID, 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	var expiresAt time.Time
	if ti.lifetime > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ti.lifetime))
		expiresAt = claims.ExpiresAt.Time
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the token's signature and lifetime and returns its claims.
// A token is still valid at exactly issuedAt+lifetime and expired after.
// Errors are domain.ErrMalformedToken, domain.ErrInvalidToken or
// domain.ErrTokenExpired.
func (ti *TokenIssuer) Verify(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
		jwt.WithIssuedAt(),
		// exp is checked as now < exp; one second keeps iat+lifetime itself valid.
		jwt.WithLeeway(time.Second),
	}
	if ti.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ti.issuer))
	}
	if ti.lifetime > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	wire := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, wire, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, domain.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, domain.ErrTokenExpired
		default:
			return Claims{}, domain.ErrInvalidToken
		}
	}

	if wire.IssuedAt == nil {
		return Claims{}, domain.ErrInvalidToken
	}
	// A token minted under a longer lifetime still expires under the current one.
	if ti.lifetime > 0 && ti.now().Sub(wire.IssuedAt.Time) > ti.lifetime {
		return Claims{}, domain.ErrTokenExpired
	}

	userID, err := strconv.ParseInt(wire.Subject, 10, 64)
	if err != nil {
		return Claims{}, domain.ErrInvalidToken
	}

	claims := Claims{
		UserID:   userID,
		Username: wire.Username,
		IssuedAt: wire.IssuedAt.Time,
	}
	if wire.ExpiresAt != nil {
		claims.ExpiresAt = wire.ExpiresAt.Time
	}
	return claims, nil
}
