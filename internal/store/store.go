// Package store persists the printdesk catalog, settings, quotation snapshots
// and printing history in SQLite.
package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
