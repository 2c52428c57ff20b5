// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists professor profiles and matching-run state in SQLite.
//
// Professor rows are a TTL-gated cache keyed by the (name, university)
// natural key: a row older than the TTL is treated as absent and will be
// re-resolved from the tool servers on the next run. Run rows record a
// matching run's progress so a polling caller observes each milestone.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// DefaultTTL is the professor cache freshness window.
const DefaultTTL = 7 * 24 * time.Hour

// timeLayout is the stored timestamp format. Fixed-width fractional seconds
// keep lexicographic order aligned with chronological order, which the
// prune query relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the advisor-match SQLite database.
type Store struct {
	db  *sql.DB
	ttl time.Duration

	// now is the clock; tests substitute it to probe the TTL boundary.
	now func() time.Time
}

// Open opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "advisor-match.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &Store{db: db, ttl: ttl, now: time.Now}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// TTL returns the cache freshness window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS professors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			university TEXT NOT NULL,
			title TEXT,
			department TEXT,
			email TEXT,
			scholar_id TEXT,
			google_scholar_url TEXT,
			research_areas TEXT,
			publications TEXT,
			citation_metrics TEXT,
			updated_at TEXT NOT NULL,
			UNIQUE(name, university)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_professors_university ON professors(university)`,
		`CREATE INDEX IF NOT EXISTS idx_professors_scholar_id ON professors(scholar_id)`,
		`CREATE TABLE IF NOT EXISTS runs (
			session_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			progress INTEGER NOT NULL,
			step TEXT,
			error TEXT,
			results TEXT,
			started_at TEXT NOT NULL,
			elapsed_seconds REAL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// fresh reports whether a record updated at t is still inside the TTL.
// The boundary is exclusive: age == TTL is stale.
func (s *Store) fresh(t time.Time) bool {
	return s.now().Sub(t) < s.ttl
}
