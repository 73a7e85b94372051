package boards

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenKind tags a token as usable for resource access or for session
// refresh. The kind travels as a claim and is checked on verification in
// addition to the per-kind signing secret, so the two populations are
// structurally disjoint even if the secrets are ever misconfigured to
// match.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the payload carried by both token kinds. Subject is the
// account id as a decimal string.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string    `json:"email,omitempty"`
	Role  UserRole  `json:"role,omitempty"`
	Kind  TokenKind `json:"kind,omitempty"`
}

// AccountID parses the subject claim back into an account id.
func (c *TokenClaims) AccountID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryAuth, "token subject is not an account id").
			WithMetadata(map[string]any{"subject": c.Subject})
	}
	return id, nil
}

// Expiration returns the exp claim as a time, zero when absent.
func (c *TokenClaims) Expiration() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued returns the iat claim as a time, zero when absent.
func (c *TokenClaims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
