// Package cache persists profile snapshots and their analysis results in a
// sqlite database keyed by username, with a time-based expiry window.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"gramlens/internal/types"
)

// DefaultTTL is how long a cached entry is served before being treated as
// absent.
const DefaultTTL = 7 * 24 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS profile_cache (
	username TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	report TEXT NOT NULL,
	timestamp INTEGER NOT NULL
);
`

// Entry is the persisted unit: the raw profile snapshot, its analysis, and
// the write time.
type Entry struct {
	Username  string
	Profile   *types.Profile
	Analysis  *types.AnalysisResult
	Timestamp time.Time
}

// Store is a sqlite-backed cache. Every operation opens its own connection
// and releases it on completion, so a Store can be shared freely and
// concurrent single-key upserts are last-writer-wins.
type Store struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the 7-day default expiry window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store at the given database path, creating the parent
// directory and schema as needed.
func New(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	return s, db.Close()
}

// open acquires a connection and ensures the schema exists.
func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}
	return db, nil
}

// Get looks up the entry for username. A set bypass flag always reports a
// miss (forced refresh). Entries older than the TTL report a miss but are
// left in place; only PurgeExpired removes them.
func (s *Store) Get(username string, bypass bool) (*Entry, bool, error) {
	if bypass {
		return nil, false, nil
	}

	db, err := s.open()
	if err != nil {
		return nil, false, err
	}
	defer db.Close()

	var dataJSON, reportJSON string
	var ts int64
	err = db.QueryRow(
		`SELECT data, report, timestamp FROM profile_cache WHERE username = ?`, username,
	).Scan(&dataJSON, &reportJSON, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup failed: %w", err)
	}

	written := time.Unix(ts, 0)
	if s.now().Sub(written) >= s.ttl {
		return nil, false, nil
	}

	entry := &Entry{Username: username, Timestamp: written}
	if err := json.Unmarshal([]byte(dataJSON), &entry.Profile); err != nil {
		return nil, false, fmt.Errorf("cache entry for %s has corrupt profile data: %w", username, err)
	}
	if err := json.Unmarshal([]byte(reportJSON), &entry.Analysis); err != nil {
		return nil, false, fmt.Errorf("cache entry for %s has corrupt report data: %w", username, err)
	}

	return entry, true, nil
}

// Put upserts the entry for username with the current time as the write
// timestamp, which it returns.
func (s *Store) Put(username string, profile *types.Profile, analysis *types.AnalysisResult) (time.Time, error) {
	dataJSON, err := json.Marshal(profile)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to encode profile: %w", err)
	}
	reportJSON, err := json.Marshal(analysis)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to encode analysis: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return time.Time{}, err
	}
	defer db.Close()

	written := s.now()
	_, err = db.Exec(`
		INSERT INTO profile_cache (username, data, report, timestamp)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			data = excluded.data,
			report = excluded.report,
			timestamp = excluded.timestamp
	`, username, string(dataJSON), string(reportJSON), written.Unix())
	if err != nil {
		return time.Time{}, fmt.Errorf("cache write failed: %w", err)
	}

	return written, nil
}

// PurgeExpired deletes entries past the TTL and returns how many were
// removed. Get never deletes; this is the external invalidation pass.
func (s *Store) PurgeExpired() (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	cutoff := s.now().Add(-s.ttl).Unix()
	res, err := db.Exec(`DELETE FROM profile_cache WHERE timestamp <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache purge failed: %w", err)
	}
	return res.RowsAffected()
}
