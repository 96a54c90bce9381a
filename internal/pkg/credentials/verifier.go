// Package credentials wraps password hashing so callers never touch bcrypt
// directly and never compare against a missing hash.
package credentials

import "golang.org/x/crypto/bcrypt"

// Verify reports whether candidate matches the stored bcrypt hash.
// A nil or empty hash means the account has no password (OAuth-only) and
// can never pass credential login. Any comparison error counts as a
// mismatch rather than propagating upward.
func Verify(storedHash *string, candidate string) bool {
	if storedHash == nil || *storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*storedHash), []byte(candidate)) == nil
}

// Hash produces a bcrypt hash for a new password.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
