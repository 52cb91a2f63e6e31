// Package password wraps bcrypt for storing and checking account passwords.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for every stored hash.
const Cost = 10

// MaxBytes is the longest input bcrypt accepts, counted in bytes.
const MaxBytes = 72

var ErrInvalidInput = errors.New("password must be 1 to 72 bytes")

func Hash(plaintext string) (string, error) {
	if plaintext == "" || len(plaintext) > MaxBytes {
		return "", ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrInvalidInput
	}
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is a mismatch.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
