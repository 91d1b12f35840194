package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost of 10 balances security and request latency for the
// internal push API, which is called by trusted subsystems only.
const bcryptCost = 10

// HashAPIKey generates a bcrypt hash of an API key, for storing in config.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}
	return string(hash), nil
}

// CheckAPIKey compares a bcrypt hash from config with a presented key.
func CheckAPIKey(hash, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}
