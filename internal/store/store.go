// Package store is the SQLite implementation of activity.Store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/logging"
	"github.com/rshade/ecoquest/internal/migration"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const busyTimeoutMs = 5000

// Store persists ecoquest data in SQLite.
type Store struct {
	db *sql.DB
}

var _ activity.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and brings its schema
// up to date.
func Open(ctx context.Context, path string) (*Store, error) {
	log := logging.FromContext(ctx)

	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	if memory {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}

	m, err := migration.New(db, Migrations()...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	applied, err := m.Up(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	log.Debug().Ctx(ctx).
		Str("component", "store").
		Str("path", path).
		Strs("migrations_applied", applied).
		Msg("database ready")

	return &Store{db: db}, nil
}

func dsn(path string) string {
	params := fmt.Sprintf("_busy_timeout=%d&_foreign_keys=on", busyTimeoutMs)
	if path != MemoryPath {
		params += "&_journal_mode=WAL"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	m, err := migration.New(s.db, Migrations()...)
	if err != nil {
		return "", err
	}
	return m.Current(ctx)
}
