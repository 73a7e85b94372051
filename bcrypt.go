package boards

import (
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hash latency for brute-force resistance. The work
// factor is baked into each hash, so changing it only affects newly stored
// credentials.
const bcryptCost = 10

// HashPassword returns a bcrypt hash of the given secret with a randomized
// salt. Hashing the same input twice yields different hashes; use
// VerifySecret to compare.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash secret")
	}

	return string(hash), nil
}

// VerifySecret reports whether the secret matches the bcrypt hash. Any
// failure, including a malformed or empty hash, is a non-match; callers
// never branch on why a comparison failed.
func VerifySecret(secret, hash string) bool {
	if secret == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
