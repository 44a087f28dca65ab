package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store defines the client-local state operations.
type Store interface {
	GetState(ctx context.Context, key string) (string, bool, error)
	SetState(ctx context.Context, key, value string) error
	DeleteState(ctx context.Context, key string) (bool, error)
	ListState(ctx context.Context) ([]StateValue, error)
	RecordAudit(ctx context.Context, action, detail string) error
	RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string // empty for in-memory databases

	getState    *sql.Stmt
	setState    *sql.Stmt
	deleteState *sql.Stmt
	insertAudit *sql.Stmt
}

// Open opens (creating if needed) the state database at path, applies
// migrations and returns a ready store. The store owns the *sql.DB.
func Open(ctx context.Context, path, journalMode string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := NewMigrationRunner(db).Run(ctx, journalMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	s.path = path
	return s, nil
}

// NewSQLiteStore creates a store from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getState, err = s.db.Prepare(`SELECT value FROM client_state WHERE key = ?`)
	if err != nil {
		return err
	}

	s.setState, err = s.db.Prepare(`
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	s.deleteState, err = s.db.Prepare(`DELETE FROM client_state WHERE key = ?`)
	if err != nil {
		return err
	}

	s.insertAudit, err = s.db.Prepare(`INSERT INTO audit_log (action, detail, ts) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// GetState returns the value stored under key; ok is false when unset.
func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.getState.QueryRowContext(ctx, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get state %s: %w", key, err)
	}
	return value, true, nil
}

// SetState stores value under key, replacing any previous value.
func (s *SQLiteStore) SetState(ctx context.Context, key, value string) error {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.setState.ExecContext(ctx, key, value, ts); err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

// DeleteState removes key and reports whether it existed.
func (s *SQLiteStore) DeleteState(ctx context.Context, key string) (bool, error) {
	res, err := s.deleteState.ExecContext(ctx, key)
	if err != nil {
		return false, fmt.Errorf("delete state %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListState returns every stored key ordered by key.
func (s *SQLiteStore) ListState(ctx context.Context) ([]StateValue, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value, updated_at FROM client_state ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list state: %w", err)
	}
	defer rows.Close()

	values := []StateValue{}
	for rows.Next() {
		var v StateValue
		var ts string
		if err := rows.Scan(&v.Key, &v.Value, &ts); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		v.UpdatedAt, _ = parseTimestamp(ts)
		values = append(values, v)
	}
	return values, rows.Err()
}

// RecordAudit appends an audit row.
func (s *SQLiteStore) RecordAudit(ctx context.Context, action, detail string) error {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.insertAudit.ExecContext(ctx, action, detail, ts); err != nil {
		return fmt.Errorf("record audit %s: %w", action, err)
	}
	return nil
}

// RecentAudit returns up to limit audit rows, newest first.
func (s *SQLiteStore) RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, action, detail, ts FROM audit_log ORDER BY id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var e AuditEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.Action, &e.Detail, &ts); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Time, _ = parseTimestamp(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM client_state").Scan(&stats.StateKeys); err != nil {
		return nil, fmt.Errorf("count state: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log").Scan(&stats.AuditEntries); err != nil {
		return nil, fmt.Errorf("count audit log: %w", err)
	}

	if stats.AuditEntries > 0 {
		var last string
		if err := s.db.QueryRowContext(ctx, "SELECT MAX(ts) FROM audit_log").Scan(&last); err != nil {
			return nil, fmt.Errorf("last audit: %w", err)
		}
		stats.LastAudit, _ = parseTimestamp(last)
	}

	stats.DatabaseSizeBytes = s.databaseSize(ctx)
	return stats, nil
}

// databaseSize uses the file size for on-disk databases and
// page_count * page_size otherwise.
func (s *SQLiteStore) databaseSize(ctx context.Context) int64 {
	if s.path != "" {
		if info, err := os.Stat(s.path); err == nil {
			return info.Size()
		}
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// Path returns the database file path, empty for in-memory stores.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases prepared statements. A store created by Open also closes
// its database; one built with NewSQLiteStore leaves that to the caller.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.getState, s.setState, s.deleteState, s.insertAudit} {
		if stmt != nil {
			stmt.Close()
		}
	}
	if s.path != "" {
		return s.db.Close()
	}
	return nil
}
