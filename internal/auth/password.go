package auth

import (
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword bcrypt-hashes the password and base64-encodes the hash
// bytes for storage in a text column.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(hash), nil
}

// CheckPassword decodes the stored encoding and compares against the
// candidate password. Any decode failure counts as a mismatch.
func CheckPassword(password, stored string) bool {
	hash, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
