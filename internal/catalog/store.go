// Package catalog holds the process-wide handle to the photo catalog.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/templui/campus-collector/internal/db"
	"github.com/templui/campus-collector/internal/logger"
)

var ErrClosed = errors.New("catalog closed")

// Store is created once at startup and shared by every caller. The database is
// opened and migrated on first use and stays open until Close. A failed open is
// retried on the next call.
type Store struct {
	driver     string
	connection string

	mu     sync.Mutex
	db     *sqlx.DB
	closed bool
}

func NewStore(driver, connection string) *Store {
	return &Store{driver: driver, connection: connection}
}

func (s *Store) Driver() string {
	return s.driver
}

// DB returns the open catalog database.
func (s *Store) DB() (*sqlx.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.db != nil {
		return s.db, nil
	}

	conn, err := db.Init(s.driver, s.connection)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	err = prepare(conn, s.driver)
	if err != nil {
		conn.Close()
		return nil, err
	}

	logger.Component("catalog").Info("catalog opened", "driver", s.driver)
	s.db = conn
	return s.db, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	conn := s.db
	s.db = nil
	return db.Close(conn)
}

// prepare brings the schema up to date: versioned migrations for the base
// table, then the optional columns older catalogs may lack.
func prepare(conn *sqlx.DB, driver string) error {
	err := db.RunMigrations(conn.DB, driver)
	if err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}

	_, err = db.EnsureColumns(conn, driver, "photos", db.PhotoColumns)
	if err != nil {
		return fmt.Errorf("failed to update catalog columns: %w", err)
	}
	return nil
}
