package history

import (
	"log/slog"
	"strings"

	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/session"
)

const maxDetailIDs = 5

// Recorder turns dispatched session events into history entries. Save
// failures are logged and otherwise ignored.
type Recorder struct {
	repo    Repository
	command string
	logger  *slog.Logger
}

// NewRecorder returns a Recorder that tags entries with command.
func NewRecorder(repo Repository, command string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, command: command, logger: logger.With("component", "history")}
}

// Observe records e. Its signature matches session.Observer.
func (r *Recorder) Observe(e session.Event, s domain.Session) {
	if r == nil || r.repo == nil {
		return
	}

	entry := &Entry{
		Command:     r.command,
		UserID:      s.UserID,
		Event:       string(e.Kind),
		ActionCount: e.Count(),
		Detail:      detail(e),
	}
	if err := r.repo.Save(entry); err != nil {
		r.logger.Warn("failed to record sync event", "event", e.Kind, "error", err)
	}
}

func detail(e session.Event) string {
	switch {
	case e.Action != nil:
		return e.Action.Type + " " + e.Action.ID
	case len(e.Actions) > 0:
		ids := domain.ActionIDs(e.Actions)
		if len(ids) > maxDetailIDs {
			return strings.Join(ids[:maxDetailIDs], ",") + ",..."
		}
		return strings.Join(ids, ",")
	case e.User != nil:
		return "user " + e.User.ID
	case e.ShouldClearData:
		return "local data cleared"
	}
	return ""
}
