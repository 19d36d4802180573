// Package store persists generated emails so past runs can be reviewed.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"coldreach/internal/model"
)

// RunRecord is one persisted (url, job, email) row.
type RunRecord struct {
	ID        int64
	URL       string
	Role      string
	Email     string
	CreatedAt time.Time
}

// SQLiteStore implements model.RunStore on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the results table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS results (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		url        TEXT NOT NULL,
		role       TEXT NOT NULL,
		email      TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveResult records one generated email.
func (s *SQLiteStore) SaveResult(url string, res model.PipelineResult) error {
	_, err := s.db.Exec(
		"INSERT INTO results (url, role, email) VALUES (?, ?, ?)",
		url, res.Job.RoleOr("unknown"), res.Email,
	)
	if err != nil {
		return fmt.Errorf("saving result for %s: %w", url, err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (s *SQLiteStore) Recent(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, url, role, email, created_at FROM results ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.URL, &r.Role, &r.Email, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
