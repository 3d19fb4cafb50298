package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks the shared admin secret. A bcrypt hash takes
// precedence over a plaintext password when both are configured.
type PasswordVerifier struct {
	plain []byte
	hash  []byte
}

// NewPasswordVerifier creates a verifier. With neither value set every
// password is rejected.
func NewPasswordVerifier(plain, hash string) *PasswordVerifier {
	v := &PasswordVerifier{}
	if hash != "" {
		v.hash = []byte(hash)
	} else if plain != "" {
		v.plain = []byte(plain)
	}
	return v
}

// Verify reports whether password matches the configured secret.
func (v *PasswordVerifier) Verify(password string) bool {
	switch {
	case v.hash != nil:
		return bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
	case v.plain != nil:
		return subtle.ConstantTimeCompare(v.plain, []byte(password)) == 1
	default:
		return false
	}
}
