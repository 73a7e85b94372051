package boards

import (
	"context"
	"crypto/sha256"
	"encoding/base64"

	"github.com/goliatone/go-errors"
)

// RefreshTokenStore manages the single hashed-at-rest refresh credential
// each account carries. The raw token is never persisted: it is digested
// with sha256, then the digest is bcrypt hashed. The pre-digest step exists
// because bcrypt rejects inputs over 72 bytes and a signed JWT always
// exceeds that.
type RefreshTokenStore struct {
	users  Users
	logger Logger
}

// NewRefreshTokenStore builds a store over the account directory.
func NewRefreshTokenStore(users Users) *RefreshTokenStore {
	return &RefreshTokenStore{
		users:  users,
		logger: defLogger{},
	}
}

// WithLogger replaces the fallback logger.
func (s *RefreshTokenStore) WithLogger(logger Logger) *RefreshTokenStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Rotate overwrites the account's stored credential with a hash of the
// given raw secret. Used by login and registration, which establish a new
// session regardless of what was stored before.
func (s *RefreshTokenStore) Rotate(ctx context.Context, accountID int64, rawSecret string) error {
	hash, err := s.hashSecret(rawSecret)
	if err != nil {
		return err
	}
	return s.users.UpdateRefreshTokenHash(ctx, accountID, &hash)
}

// RotateFrom swaps the stored credential only when it still equals
// previous. The refresh flow uses this so that two concurrent refreshes
// with the same token cannot both succeed: the conditional update matches
// exactly once.
func (s *RefreshTokenStore) RotateFrom(ctx context.Context, accountID int64, previous *string, rawSecret string) error {
	hash, err := s.hashSecret(rawSecret)
	if err != nil {
		return err
	}
	return s.users.RotateRefreshTokenHash(ctx, accountID, previous, &hash)
}

// Clear drops the stored credential, ending the account's session. Clearing
// an account with no session, or no account at all, succeeds.
func (s *RefreshTokenStore) Clear(ctx context.Context, accountID int64) error {
	return s.users.UpdateRefreshTokenHash(ctx, accountID, nil)
}

// Matches reports whether the raw secret corresponds to the account's
// stored credential. No stored credential means no match.
func (s *RefreshTokenStore) Matches(user *User, rawSecret string) bool {
	if user == nil || user.RefreshTokenHash == nil || rawSecret == "" {
		return false
	}
	return VerifySecret(digestSecret(rawSecret), *user.RefreshTokenHash)
}

func (s *RefreshTokenStore) hashSecret(rawSecret string) (string, error) {
	if rawSecret == "" {
		return "", ErrNoEmptyString
	}
	hash, err := HashPassword(digestSecret(rawSecret))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash refresh credential")
	}
	return hash, nil
}

func digestSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
