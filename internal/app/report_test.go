package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/session"
)

func TestReport_Lines(t *testing.T) {
	rep := &Report{}
	batch := []domain.Action{{ID: "a1"}, {ID: "a2"}}

	rep.observe(session.Event{Kind: session.PostFailed, Actions: batch}, domain.Session{})
	rep.observe(session.Event{Kind: session.ActionsPosted, Actions: batch}, domain.Session{})
	rep.observe(session.Event{Kind: session.FetchFailed}, domain.Session{})

	want := []string{
		"Posted 2 action(s).",
		"Post failed; 2 action(s) remain queued.",
		"Could not fetch user state.",
	}
	if diff := cmp.Diff(want, rep.Lines()); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestReport_Empty(t *testing.T) {
	if lines := (&Report{}).Lines(); len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}
