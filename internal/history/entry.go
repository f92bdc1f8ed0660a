package history

import "time"

// Entry is one recorded synchronization outcome.
type Entry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Command     string    `json:"command,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Event       string    `json:"event"`
	ActionCount int       `json:"action_count"`
	Detail      string    `json:"detail,omitempty"`
}
