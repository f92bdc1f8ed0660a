// Package history keeps a local log of the synchronization events a CLI
// run observed, for later inspection with `usersync history`.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/usersync/internal/database"
)

// Fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository defines the persistence interface for history entries.
type Repository interface {
	Save(entry *Entry) error
	List(limit int) ([]Entry, error)
	ListByEvent(event string, limit int) ([]Entry, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the history repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS sync_history (
            id           INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp    TEXT    NOT NULL,
            command      TEXT    NOT NULL DEFAULT '',
            user_id      TEXT    NOT NULL DEFAULT '',
            event        TEXT    NOT NULL,
            action_count INTEGER NOT NULL DEFAULT 0,
            detail       TEXT    NOT NULL DEFAULT ''
        );
        CREATE INDEX IF NOT EXISTS idx_sync_history_timestamp ON sync_history(timestamp);
        CREATE INDEX IF NOT EXISTS idx_sync_history_event ON sync_history(event);
    `
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("history: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new entry and assigns its ID.
func (r *SQLiteRepository) Save(entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT INTO sync_history (timestamp, command, user_id, event, action_count, detail)
        VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UTC().Format(timeLayout), entry.Command, entry.UserID,
		entry.Event, entry.ActionCount, entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("history: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("history: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns the most recent entries, newest first.
func (r *SQLiteRepository) List(limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
        SELECT id, timestamp, command, user_id, event, action_count, detail
        FROM sync_history ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByEvent returns the most recent entries of one event kind.
func (r *SQLiteRepository) ListByEvent(event string, limit int) ([]Entry, error) {
	rows, err := r.db.Query(`
        SELECT id, timestamp, command, user_id, event, action_count, detail
        FROM sync_history WHERE event = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, event, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(timeLayout)
	result, err := r.db.Exec(`DELETE FROM sync_history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var timestampStr string
		err := rows.Scan(
			&entry.ID, &timestampStr, &entry.Command, &entry.UserID,
			&entry.Event, &entry.ActionCount, &entry.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(timeLayout, timestampStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
