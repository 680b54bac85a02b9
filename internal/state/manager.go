package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBName is the database file created inside the state directory
const DBName = "fmatch.db"

// Manager handles fingerprint persistence and check history
type Manager struct {
	db *sql.DB
}

// Record is one fingerprint computed for a target
type Record struct {
	ID         int64     `json:"id" yaml:"id"`
	Target     string    `json:"target" yaml:"target"`
	Session    string    `json:"session,omitempty" yaml:"session,omitempty"` // watch session id, empty for one-shot checks
	Hash       string    `json:"hash" yaml:"hash"`
	FileCount  int       `json:"file_count" yaml:"file_count"`
	TotalBytes int64     `json:"total_bytes" yaml:"total_bytes"`
	CheckedAt  time.Time `json:"checked_at" yaml:"checked_at"`
}

// NewManager creates a new state manager
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBName)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Limit connection pool to prevent "database is locked" errors
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable WAL mode for better concurrency and set busy timeout
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	manager := &Manager{db: db}

	// Initialize schema
	if err := manager.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return manager, nil
}

// initSchema creates the database schema
func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fingerprints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		session TEXT NOT NULL DEFAULT '',
		hash TEXT NOT NULL,
		file_count INTEGER DEFAULT 0,
		total_bytes INTEGER DEFAULT 0,
		checked_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fingerprints_target_time ON fingerprints(target, checked_at DESC);
	`

	_, err := m.db.Exec(schema)
	return err
}

// Save records a fingerprint and returns its id
func (m *Manager) Save(record Record) (int64, error) {
	if record.Target == "" {
		return 0, fmt.Errorf("target cannot be empty")
	}
	if record.Hash == "" {
		return 0, fmt.Errorf("hash cannot be empty")
	}
	if record.CheckedAt.IsZero() {
		record.CheckedAt = time.Now()
	}

	query := `
		INSERT INTO fingerprints (target, session, hash, file_count, total_bytes, checked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := m.db.Exec(query,
		record.Target,
		record.Session,
		record.Hash,
		record.FileCount,
		record.TotalBytes,
		record.CheckedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save fingerprint: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read fingerprint id: %w", err)
	}
	return id, nil
}

// Last retrieves the most recent fingerprint of a target, nil when none was recorded
func (m *Manager) Last(target string) (*Record, error) {
	query := `
		SELECT id, target, session, hash, file_count, total_bytes, checked_at
		FROM fingerprints
		WHERE target = ?
		ORDER BY checked_at DESC, id DESC
		LIMIT 1
	`

	record, err := scanRecord(m.db.QueryRow(query, target))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Nothing recorded yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last fingerprint: %w", err)
	}

	return record, nil
}

// History retrieves the latest fingerprints of a target, newest first.
// An empty target returns history across all targets.
func (m *Manager) History(target string, limit int) ([]Record, error) {
	// Validate limit
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, target, session, hash, file_count, total_bytes, checked_at
		FROM fingerprints
		WHERE (? = '' OR target = ?)
		ORDER BY checked_at DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, target, target, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Prune keeps the newest keep fingerprints of a target and deletes the rest
func (m *Manager) Prune(target string, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	query := `
		DELETE FROM fingerprints
		WHERE target = ? AND id NOT IN (
			SELECT id FROM fingerprints
			WHERE target = ?
			ORDER BY checked_at DESC, id DESC
			LIMIT ?
		)
	`

	res, err := m.db.Exec(query, target, target, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var record Record
	err := s.Scan(
		&record.ID,
		&record.Target,
		&record.Session,
		&record.Hash,
		&record.FileCount,
		&record.TotalBytes,
		&record.CheckedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
