package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordHashCost is the bcrypt work factor for stored passwords.
	PasswordHashCost = 12

	// MaxPasswordBytes is the bcrypt input limit. It counts bytes, not characters.
	MaxPasswordBytes = 72
)

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordFitsBcrypt reports whether password can be hashed without truncation or error.
func PasswordFitsBcrypt(password string) bool {
	return len(password) <= MaxPasswordBytes
}

func HashPassword(password string) (string, error) {
	if !PasswordFitsBcrypt(password) {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash compares a plaintext password with a stored bcrypt hash.
// Over-long input never matches.
func CheckPasswordHash(password, hash string) bool {
	if !PasswordFitsBcrypt(password) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
