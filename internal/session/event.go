package session

import "nathanbeddoewebdev/usersync/internal/domain"

// EventKind names an outcome or trigger dispatched to a Store.
type EventKind string

const (
	// ActionObserved reports an action that does not need server confirmation.
	ActionObserved EventKind = "action_observed"
	// ActionQueued reports an action accepted into the pending queue.
	ActionQueued EventKind = "action_queued"
	// FetchRequested reports that a fetch of the remote user was requested.
	FetchRequested EventKind = "fetch_requested"
	// PostStarted reports that a batch of pending actions went out.
	PostStarted EventKind = "post_started"
	// ActionsPosted reports a confirmed batch and the server's user state.
	ActionsPosted EventKind = "actions_posted"
	// PostFailed reports that a batch was not confirmed.
	PostFailed EventKind = "post_failed"
	// UserFetched reports an accepted fetch result.
	UserFetched EventKind = "user_fetched"
	// FetchFailed reports a failed or stale fetch.
	FetchFailed EventKind = "fetch_failed"

	UserLoggedOut           EventKind = "user_logged_out"
	AnonymousSessionStarted EventKind = "anonymous_session_started"
	UserAuthenticated       EventKind = "user_authenticated"
)

// Event is a single dispatch to a Store. Which fields are set depends on
// Kind.
type Event struct {
	Kind EventKind

	// Action is set for ActionObserved and ActionQueued.
	Action *domain.Action

	// Actions holds the batch for PostStarted, ActionsPosted and PostFailed.
	Actions []domain.Action

	// User is set for ActionsPosted and UserFetched.
	User *domain.User

	// UserID and Token carry the new identity for UserAuthenticated.
	UserID string
	Token  string

	// ShouldClearData is set on identity events that discarded local data.
	ShouldClearData bool
}

// Count returns how many actions the event concerns.
func (e Event) Count() int {
	if e.Action != nil {
		return 1
	}
	return len(e.Actions)
}
