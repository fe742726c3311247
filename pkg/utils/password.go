package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// IsValidPIN reports whether pin is exactly four digits.
func IsValidPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

// HashPassword hashes a secret (the manager PIN) with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a secret with its bcrypt hash in constant time.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
