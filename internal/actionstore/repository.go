// Package actionstore provides the durable log of actions that are queued
// for synchronization but not yet confirmed by the server.
//
// When the process exits with actions still pending, the next coordinator
// re-hydrates them from this log and posts them again. Records are keyed
// by the action's own identifier, so writing the same action twice
// overwrites the earlier copy.
//
// Storage is backed by a SQLite database at ~/.config/usersync/usersync.db
// (or the platform-equivalent path returned by os.UserConfigDir).
package actionstore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"nathanbeddoewebdev/usersync/internal/database"
	"nathanbeddoewebdev/usersync/internal/domain"
)

// Repository defines the persistence interface for queued actions.
// Every operation is idempotent.
type Repository interface {
	// Put inserts or overwrites the action with the same ID.
	Put(action domain.Action) error

	// ListAll returns every stored action, oldest first.
	ListAll() ([]domain.Action, error)

	// DeleteMany removes the actions with the given IDs. Unknown IDs
	// are ignored.
	DeleteMany(ids []string) error

	// ClearAll removes every stored action.
	ClearAll() error

	// Close releases database resources.
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the action log at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("actionstore: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("actionstore: %w", err)
	}

	r := &SQLiteRepository{db: db, logger: slog.Default().With("component", "actionstore")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// migrate creates the queued_actions table if it doesn't exist.
func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS queued_actions (
			action_id   TEXT PRIMARY KEY,
			action_type TEXT NOT NULL DEFAULT '',
			body        TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			stored_at   TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_queued_actions_created ON queued_actions(created_at);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("actionstore: migration failed: %w", err)
	}
	return nil
}

// Put inserts the action, or overwrites the stored copy with the same ID.
// The original created_at is kept on overwrite so queue order is stable.
func (r *SQLiteRepository) Put(action domain.Action) error {
	record, err := NewRecord(action)
	if err != nil {
		return err
	}
	record.StoredAt = time.Now().UTC()

	_, err = r.db.Exec(`
		INSERT INTO queued_actions (action_id, action_type, body, created_at, stored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(action_id) DO UPDATE SET
			action_type = excluded.action_type,
			body        = excluded.body,
			stored_at   = excluded.stored_at`,
		record.ActionID, record.ActionType, string(record.Body),
		record.CreatedAt.UTC().Format(timeLayout), record.StoredAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("actionstore: put %s failed: %w", action.ID, err)
	}
	return nil
}

// ListAll returns every stored action ordered by creation time. Records
// that no longer decode are logged and skipped so the rest of the queue
// still loads.
func (r *SQLiteRepository) ListAll() ([]domain.Action, error) {
	records, err := r.ListRecords()
	if err != nil {
		return nil, err
	}
	actions := make([]domain.Action, 0, len(records))
	for i := range records {
		action, err := records[i].Action()
		if err != nil {
			r.logger.Warn("skipping unreadable queued action", "action_id", records[i].ActionID, "error", err)
			continue
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// ListRecords returns the raw stored records ordered by creation time.
func (r *SQLiteRepository) ListRecords() ([]ActionRecord, error) {
	rows, err := r.db.Query(`
		SELECT action_id, action_type, body, created_at, stored_at
		FROM queued_actions ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("actionstore: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// DeleteMany removes the given IDs in a single transaction.
func (r *SQLiteRepository) DeleteMany(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("actionstore: begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`DELETE FROM queued_actions WHERE action_id = ?`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("actionstore: prepare delete: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("actionstore: delete %s failed: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("actionstore: commit delete: %w", err)
	}
	return nil
}

// ClearAll removes every stored action.
func (r *SQLiteRepository) ClearAll() error {
	if _, err := r.db.Exec(`DELETE FROM queued_actions`); err != nil {
		return fmt.Errorf("actionstore: clear failed: %w", err)
	}
	return nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// scanRows scans multiple rows into ActionRecords.
func scanRows(rows *sql.Rows) ([]ActionRecord, error) {
	var records []ActionRecord
	for rows.Next() {
		var record ActionRecord
		var body, createdStr, storedStr string
		if err := rows.Scan(&record.ActionID, &record.ActionType, &body, &createdStr, &storedStr); err != nil {
			return nil, fmt.Errorf("actionstore: scan failed: %w", err)
		}
		record.Body = []byte(body)
		record.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		record.StoredAt, _ = time.Parse(timeLayout, storedStr)
		records = append(records, record)
	}
	return records, rows.Err()
}
