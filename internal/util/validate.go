package util

import (
	"fmt"
	"regexp"
)

// validIDChars matches alphanumeric characters, hyphens, underscores, and periods.
var validIDChars = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// validTypeChars matches dotted, lowercase-friendly action type names such
// as "track.liked" or "playlist.item_added".
var validTypeChars = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)*$`)

// ValidateUserID checks that a user ID is safe to embed in request paths:
//   - Not empty and at most 128 characters
//   - Only alphanumeric characters, hyphens, underscores, and periods
//   - First character must be alphanumeric
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("user ID must not be empty")
	}
	if len(id) > 128 {
		return fmt.Errorf("user ID must be at most 128 characters, got %d", len(id))
	}
	if !validIDChars.MatchString(id) {
		return fmt.Errorf("user ID %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, underscores, and periods are allowed)", id)
	}
	if !isAlphanumeric(id[0]) {
		return fmt.Errorf("user ID must start with an alphanumeric character, got %q", string(id[0]))
	}
	return nil
}

// ValidateActionType checks that an action type is a dotted identifier.
func ValidateActionType(actionType string) error {
	if !validTypeChars.MatchString(actionType) {
		return fmt.Errorf("action type %q must be a dotted identifier such as \"track.liked\"", actionType)
	}
	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
