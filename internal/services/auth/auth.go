// Package auth stores session tokens per user ID.
package auth

import (
	"errors"
	"strings"
)

const ServiceName = "usersync"

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(userID string, token string) error
	GetToken(userID string) (string, error)
	DeleteToken(userID string) error
}

// storeOverride, when non-nil, is returned by DefaultStore. Intended for
// testing. Use SetDefaultStore / ResetDefaultStore to manage.
var storeOverride Store

// SetDefaultStore overrides the store returned by DefaultStore. Intended for testing.
func SetDefaultStore(s Store) { storeOverride = s }

// ResetDefaultStore reverts DefaultStore to the OS keychain. Intended for testing.
func ResetDefaultStore() { storeOverride = nil }

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	if storeOverride != nil {
		return storeOverride
	}
	return NewKeyringStore(ServiceName)
}

// NormalizeUserID trims surrounding whitespace. Case is kept: "Alice" and
// "alice" are different users with different tokens.
func NormalizeUserID(userID string) string {
	return strings.TrimSpace(userID)
}
