// Package auth verifies bearer credentials and gates operations by role.
//
// The Verifier is a pure function of (token, secret, clock): it holds no
// state and is safe for concurrent use. Authorization failures are kept
// distinct from authentication failures so the middleware chain can
// short-circuit in the right order.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const bearerPrefix = "Bearer "

var (
	// ErrTokenMissing means no credential was presented: absent header,
	// wrong scheme, or an empty token after the prefix.
	ErrTokenMissing = errors.New("missing bearer token")
	// ErrTokenInvalid means a presented credential failed verification:
	// malformed, bad signature, or expired.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrForbidden means a verified principal lacks the required role.
	ErrForbidden = errors.New("insufficient role")
)

// Principal is the verified request identity, derived fresh per request
// and never persisted.
type Principal struct {
	UserID uuid.UUID
	Role   domain.Role
}

// Claims is the signed token payload. Field names match the tokens the
// frontend already holds: {userId, role}.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier issues and verifies HS256 bearer tokens.
type Verifier struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

func NewVerifier(secret string, ttl time.Duration, clock clockwork.Clock) *Verifier {
	return &Verifier{secret: []byte(secret), ttl: ttl, clock: clock}
}

// Issue mints a signed token for the given identity.
func (v *Verifier) Issue(userID uuid.UUID, role domain.Role) (string, error) {
	now := v.clock.Now()
	claims := Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// BearerToken extracts the token from an Authorization header value.
// The scheme must be exactly "Bearer " (case-sensitive); anything else is
// treated as no credential at all.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrTokenMissing
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", ErrTokenMissing
	}
	return token, nil
}

// Verify validates the token's structure, signature and expiry against the
// injected clock and returns the embedded principal.
func (v *Verifier) Verify(token string) (Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Principal{}, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Principal{}, ErrTokenInvalid
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return Principal{}, ErrTokenInvalid
	}

	return Principal{UserID: userID, Role: role}, nil
}
