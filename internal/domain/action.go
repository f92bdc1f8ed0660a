package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action is a client-originated state change awaiting server confirmation.
//
// ID is generated once when the action is created and travels with every
// persisted copy, so an action re-hydrated after a restart is treated as the
// same queued entry.
type Action struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`

	// ShouldSynchronize marks the action as one the server must confirm.
	// Actions without the marker are observed locally but never queued.
	ShouldSynchronize bool `json:"shouldSynchronize,omitempty"`
}

// NewAction builds a synchronizable action with a fresh identifier.
func NewAction(actionType string, payload json.RawMessage) Action {
	return Action{
		ID:                uuid.NewString(),
		Type:              actionType,
		Payload:           payload,
		CreatedAt:         time.Now().UTC(),
		ShouldSynchronize: true,
	}
}

// ActionIDs returns the identifiers of actions in order.
func ActionIDs(actions []Action) []string {
	ids := make([]string, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}
	return ids
}
