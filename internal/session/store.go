// Package session holds the client-side session state that the
// synchronization coordinator reads and reports outcomes to.
package session

import (
	"sync"

	"nathanbeddoewebdev/usersync/internal/domain"
)

// Observer is called after each dispatched event with the resulting state.
type Observer func(Event, domain.Session)

// Store is a thread-safe session state container.
type Store struct {
	mu        sync.Mutex
	state     domain.Session
	observers []Observer
}

// NewStore returns a Store starting from initial.
func NewStore(initial domain.Session) *Store {
	return &Store{state: initial}
}

// State returns a snapshot of the current session.
func (s *Store) State() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies e to the session and notifies observers.
func (s *Store) Dispatch(e Event) {
	s.mu.Lock()
	s.state = Reduce(s.state, e)
	state := s.state
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(e, state)
	}
}

// Observe registers fn to run after every dispatch. Observers run on the
// dispatching goroutine and must not dispatch themselves.
func (s *Store) Observe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers[:len(s.observers):len(s.observers)], fn)
}

// Reduce returns the session that results from applying e to s.
func Reduce(s domain.Session, e Event) domain.Session {
	switch e.Kind {
	case PostStarted:
		s.IsPostingActions = true
	case ActionsPosted:
		s.IsPostingActions = false
		s.IsFetching = false
		if e.User != nil {
			s.User = e.User
		}
	case PostFailed:
		s.IsPostingActions = false
		s.IsFetching = false
	case FetchRequested:
		if s.CanSync() {
			s.IsFetching = true
		}
	case UserFetched:
		s.IsFetching = false
		if e.User != nil {
			s.User = e.User
		}
	case FetchFailed:
		s.IsFetching = false
	case UserLoggedOut:
		s = domain.Session{}
	case AnonymousSessionStarted:
		s.UserID = ""
		s.Token = ""
		s.IsPostingActions = false
		s.IsFetching = false
		if e.ShouldClearData {
			s.User = nil
		}
	case UserAuthenticated:
		s.UserID = e.UserID
		s.Token = e.Token
		if e.ShouldClearData {
			s.User = nil
			s.IsPostingActions = false
			s.IsFetching = false
		}
	}
	return s
}
