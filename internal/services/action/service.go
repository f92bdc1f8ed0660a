// Package action wraps the persistent action log with best-effort
// semantics: every failure is logged and reported as false, never
// returned, so callers can keep queueing in memory without persistence.
package action

import (
	"log/slog"

	"nathanbeddoewebdev/usersync/internal/actionstore"
	"nathanbeddoewebdev/usersync/internal/domain"
)

// Service persists queued actions when a repository is available.
// A Service with a nil repository reports persistence as unsupported and
// every write as a no-op.
type Service struct {
	repo   actionstore.Repository
	logger *slog.Logger
}

// NewService creates a new action service. repo may be nil.
func NewService(repo actionstore.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger.With("component", "actionlog")}
}

// Supported reports whether actions are persisted at all.
func (s *Service) Supported() bool {
	return s != nil && s.repo != nil
}

// Close releases repository resources.
func (s *Service) Close() error {
	if !s.Supported() {
		return nil
	}
	return s.repo.Close()
}

// Put stores the action. It returns false if persistence is unsupported
// or the write failed.
func (s *Service) Put(action domain.Action) bool {
	if !s.Supported() {
		return false
	}
	if err := s.repo.Put(action); err != nil {
		s.logger.Warn("failed to persist queued action", "action_id", action.ID, "error", err)
		return false
	}
	return true
}

// ListAll returns every stored action, or nil if none could be read.
func (s *Service) ListAll() []domain.Action {
	if !s.Supported() {
		return nil
	}
	actions, err := s.repo.ListAll()
	if err != nil {
		s.logger.Warn("failed to load queued actions", "error", err)
		return nil
	}
	return actions
}

// DeleteMany removes confirmed actions from the log.
func (s *Service) DeleteMany(ids []string) bool {
	if !s.Supported() {
		return false
	}
	if err := s.repo.DeleteMany(ids); err != nil {
		s.logger.Warn("failed to delete confirmed actions", "count", len(ids), "error", err)
		return false
	}
	return true
}

// ClearAll drops every stored action.
func (s *Service) ClearAll() bool {
	if !s.Supported() {
		return false
	}
	if err := s.repo.ClearAll(); err != nil {
		s.logger.Warn("failed to clear queued actions", "error", err)
		return false
	}
	return true
}
