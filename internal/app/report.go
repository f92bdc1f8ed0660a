package app

import (
	"fmt"
	"sync"

	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/session"
)

// Report tallies the outcome events of one run.
type Report struct {
	mu           sync.Mutex
	Posted       int
	PostFailures int
	StillQueued  int
	Fetched      bool
	FetchFailed  bool
}

// Track returns a Report fed by every event dispatched from now on.
func (r *Runtime) Track() *Report {
	rep := &Report{}
	r.Session.Observe(rep.observe)
	return rep
}

func (rep *Report) observe(e session.Event, _ domain.Session) {
	rep.mu.Lock()
	defer rep.mu.Unlock()

	switch e.Kind {
	case session.ActionsPosted:
		rep.Posted += len(e.Actions)
	case session.PostFailed:
		rep.PostFailures++
		rep.StillQueued = len(e.Actions)
	case session.UserFetched:
		rep.Fetched = true
	case session.FetchFailed:
		rep.FetchFailed = true
	}
}

// Lines renders the report for terminal output.
func (rep *Report) Lines() []string {
	rep.mu.Lock()
	defer rep.mu.Unlock()

	var lines []string
	if rep.Posted > 0 {
		lines = append(lines, fmt.Sprintf("Posted %d action(s).", rep.Posted))
	}
	if rep.PostFailures > 0 {
		lines = append(lines, fmt.Sprintf("Post failed; %d action(s) remain queued.", rep.StillQueued))
	}
	if rep.Fetched {
		lines = append(lines, "Fetched latest user state.")
	}
	if rep.FetchFailed {
		lines = append(lines, "Could not fetch user state.")
	}
	return lines
}
