package domain

import (
	"encoding/json"
	"time"
)

// User is the authoritative user state held by the remote service.
// Everything beyond the identifier is opaque to the client.
type User struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt,omitzero"`
}

// PostResult is the outcome of posting a batch of actions.
// A nil User means the post failed.
type PostResult struct {
	User *User
}

// FetchResult is the outcome of fetching the current user.
// A nil User means the fetch failed. IsFresh reports whether User came
// straight from the server rather than from a local fallback copy.
type FetchResult struct {
	User    *User
	IsFresh bool
}
