package domain

import "errors"

// Sentinel errors for classifying remote failures. The HTTP client wraps
// these so callers can branch on categories with errors.Is:
//
//	return fmt.Errorf("remote: fetch user: %w", domain.ErrUnauthorized)
var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the service throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates a server-side failure (5xx) that may
	// succeed if tried again.
	ErrUnavailable = errors.New("service unavailable")
)
