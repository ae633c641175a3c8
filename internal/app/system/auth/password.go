// internal/app/system/auth/password.go
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLen guards against bcrypt's 72-byte input limit.
const MaxPasswordLen = 72

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 8

// ErrPasswordLength is returned for passwords outside the accepted range.
var ErrPasswordLength = errors.New("password must be between 8 and 72 characters")

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(pw string) (string, error) {
	if len(pw) < MinPasswordLen || len(pw) > MaxPasswordLen {
		return "", ErrPasswordLength
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether pw matches the stored bcrypt hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
