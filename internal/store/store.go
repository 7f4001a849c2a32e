// Package store is a query catalog over the enumerated snippet tree. It lives
// in an in-memory SQLite database and is rebuilt from the tree after every
// enumeration; nothing is persisted across runs.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both contexts.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection holding one row per snippet.
type Store struct {
	db *sql.DB
	q  Querier // active querier: db or tx
}

// Row is one snippet as stored in the catalog.
type Row struct {
	ID               int64
	Language         string
	FilePath         string
	Kind             string
	ExtensionID      string
	ExtensionVersion string
	Name             string
	Prefix           string
	Description      string
	Body             string
}

// OpenMemory opens an empty in-memory catalog.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// WithTransaction executes fn within a single SQLite transaction.
// The callback receives a transaction-scoped Store; the receiver is never
// mutated.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snippets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		language TEXT NOT NULL,
		file_path TEXT NOT NULL,
		kind TEXT NOT NULL,
		extension_id TEXT NOT NULL DEFAULT '',
		extension_version TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		prefix TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		UNIQUE(language, file_path, name)
	);

	CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets(language);
	CREATE INDEX IF NOT EXISTS idx_snippets_file ON snippets(file_path);
	`
	_, err := s.db.Exec(schema)
	return err
}
