package actionstore

import (
	"encoding/json"
	"fmt"
	"time"

	"nathanbeddoewebdev/usersync/internal/domain"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ActionRecord is a queued action as stored in the log. Body holds the
// complete serialized action so the log never needs to understand the
// action's shape.
type ActionRecord struct {
	// ActionID is the stable identifier embedded in the action.
	ActionID string

	// ActionType mirrors the action's type for display and filtering.
	ActionType string

	// Body is the JSON-encoded domain.Action.
	Body []byte

	// CreatedAt is when the action was created (not when it was stored),
	// used to rebuild the queue in its original order.
	CreatedAt time.Time

	// StoredAt is the last time the record was written.
	StoredAt time.Time
}

// NewRecord serializes an action into a record.
func NewRecord(action domain.Action) (*ActionRecord, error) {
	if action.ID == "" {
		return nil, fmt.Errorf("actionstore: action has no ID")
	}
	body, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("actionstore: failed to encode action %s: %w", action.ID, err)
	}
	createdAt := action.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &ActionRecord{
		ActionID:   action.ID,
		ActionType: action.Type,
		Body:       body,
		CreatedAt:  createdAt,
	}, nil
}

// Action re-hydrates the stored action.
func (r *ActionRecord) Action() (domain.Action, error) {
	var action domain.Action
	if err := json.Unmarshal(r.Body, &action); err != nil {
		return domain.Action{}, fmt.Errorf("actionstore: failed to decode action %s: %w", r.ActionID, err)
	}
	return action, nil
}
