// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tripfolio/tripfolio/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	// tripLocks serializes membership-role mutations per trip so the
	// sole-owner count and the write it guards see the same state.
	mu        sync.Mutex
	tripLocks map[string]*sync.Mutex
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Cascading deletes depend on foreign keys being enforced.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, tripLocks: make(map[string]*sync.Mutex)}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// lockTrip returns the mutex guarding membership mutations for one trip.
// Entries live until the trip is deleted.
func (s *SQLiteStore) lockTrip(tripID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.tripLocks[tripID]
	if !ok {
		l = &sync.Mutex{}
		s.tripLocks[tripID] = l
	}
	return l
}

// releaseTripLock drops the lock entry for a deleted trip so the map
// does not grow with the lifetime of the process.
func (s *SQLiteStore) releaseTripLock(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tripLocks, tripID)
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure from
// the driver, optionally on a specific constraint such as "users.email".
func isUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, constraint)
}
