package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/owlsym/internal/querysql"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version. 0 means the file has
// never been initialized as an index.
const schemaVersion = 1

// Connection parameters understood by go-sqlite3. Every pooled connection
// gets them, not just the first.
const (
	writeParams = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
	readParams  = "mode=ro&_busy_timeout=5000&_foreign_keys=on"
)

// ErrNoIndex is returned by OpenReadOnly when path holds no index.
var ErrNoIndex = errors.New("no index database")

// ErrReadOnly is returned when writing through a store opened with OpenReadOnly.
var ErrReadOnly = errors.New("index opened read-only")

// Store is a SQLite index of extracted symbol tables.
type Store struct {
	db       *sql.DB
	compiler *querysql.SQLCompiler
	logger   *slog.Logger
	readOnly bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open creates or opens the index at path for writing, initializing the
// schema on first use. Open is idempotent.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := connect("file:" + path + "?" + writeParams)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return newStore(db, false, opts), nil
}

// OpenReadOnly opens an existing index for searching. It never creates a
// file; a missing or uninitialized database is ErrNoIndex.
func OpenReadOnly(path string, opts ...Option) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoIndex, path)
		}
		return nil, fmt.Errorf("open index: %w", err)
	}
	db, err := connect("file:" + path + "?" + readParams)
	if err != nil {
		return nil, err
	}
	version, err := userVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	switch {
	case version == 0:
		db.Close()
		return nil, fmt.Errorf("%w at %s", ErrNoIndex, path)
	case version > schemaVersion:
		db.Close()
		return nil, newerSchemaError(version)
	}
	return newStore(db, true, opts), nil
}

func connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// One connection: SQLite has a single writer, and WriteTable's seq
	// allocation relies on it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to index: %w", err)
	}
	return db, nil
}

func newStore(db *sql.DB, readOnly bool, opts []Option) *Store {
	s := &Store{
		db:       db,
		compiler: newCompiler(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		readOnly: readOnly,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// initSchema creates the tables of a fresh index and refuses databases
// written by a newer owlsym.
func initSchema(db *sql.DB) error {
	version, err := userVersion(db)
	if err != nil {
		return err
	}
	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return newerSchemaError(version)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed
	if _, err := tx.Exec(schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("init schema: set user_version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}
	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return version, nil
}

func newerSchemaError(version int) error {
	return fmt.Errorf("index schema version %d is newer than supported version %d", version, schemaVersion)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(ctx context.Context, name, expected string) error {
	var value string
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
