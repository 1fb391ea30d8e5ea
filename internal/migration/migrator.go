// Package migration applies versioned schema migrations to a SQL database.
// Versions are semantic versions and run in ascending order, one transaction
// each; applied versions are recorded in the schema_migrations table.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/rshade/ecoquest/internal/logging"
)

// ErrInvalidVersion indicates a migration whose version is not valid semver.
var ErrInvalidVersion = errors.New("invalid migration version")

// ErrDuplicateVersion indicates two migrations share a version.
var ErrDuplicateVersion = errors.New("duplicate migration version")

const createTrackingTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at TEXT NOT NULL
)`

// Migration is one schema step. Exactly one of SQL or Up should be set; when
// both are, SQL runs first.
type Migration struct {
	Version     string
	Description string
	SQL         string
	Up          func(ctx context.Context, tx *sql.Tx) error
}

// Migrator runs migrations against db.
type Migrator struct {
	db         *sql.DB
	migrations []versioned
	now        func() time.Time
}

type versioned struct {
	Migration

	version *semver.Version
}

// New validates and orders migrations. Nothing touches the database until Up.
func New(db *sql.DB, migrations ...Migration) (*Migrator, error) {
	list := make([]versioned, 0, len(migrations))
	seen := make(map[string]bool, len(migrations))

	for _, m := range migrations {
		v, err := semver.StrictNewVersion(m.Version)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidVersion, m.Version, err)
		}
		key := v.String()
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVersion, key)
		}
		seen[key] = true
		list = append(list, versioned{Migration: m, version: v})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].version.LessThan(list[j].version)
	})

	return &Migrator{db: db, migrations: list, now: time.Now}, nil
}

// Up applies every pending migration and returns the versions it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	log := logging.FromContext(ctx)

	if _, err := m.db.ExecContext(ctx, createTrackingTable); err != nil {
		return nil, fmt.Errorf("creating schema_migrations: %w", err)
	}

	applied, err := m.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, mig := range m.migrations {
		if applied[mig.version.String()] {
			continue
		}
		if err = m.apply(ctx, mig); err != nil {
			return ran, fmt.Errorf("migration %s (%s): %w", mig.version, mig.Description, err)
		}
		log.Info().Ctx(ctx).
			Str("component", "migration").
			Str("version", mig.version.String()).
			Str("description", mig.Description).
			Msg("applied migration")
		ran = append(ran, mig.version.String())
	}
	return ran, nil
}

func (m *Migrator) apply(ctx context.Context, mig versioned) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if mig.SQL != "" {
		if _, err = tx.ExecContext(ctx, mig.SQL); err != nil {
			return err
		}
	}
	if mig.Up != nil {
		if err = mig.Up(ctx, tx); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
		mig.version.String(), mig.Description, m.now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (m *Migrator) appliedSet(ctx context.Context) (map[string]bool, error) {
	versions, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(versions))
	for _, v := range versions {
		set[v] = true
	}
	return set, nil
}

// Applied returns the recorded versions in ascending semver order.
func (m *Migrator) Applied(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer rows.Close()

	var list []*semver.Version
	for rows.Next() {
		var raw string
		if err = rows.Scan(&raw); err != nil {
			return nil, err
		}
		v, parseErr := semver.NewVersion(raw)
		if parseErr != nil {
			return nil, fmt.Errorf("%w in schema_migrations %q", ErrInvalidVersion, raw)
		}
		list = append(list, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	sort.Sort(semver.Collection(list))
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = v.String()
	}
	return out, nil
}

// Current returns the highest applied version, or "" when none is.
func (m *Migrator) Current(ctx context.Context) (string, error) {
	versions, err := m.Applied(ctx)
	if err != nil || len(versions) == 0 {
		return "", err
	}
	return versions[len(versions)-1], nil
}

// Pending returns the versions not yet applied.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, createTrackingTable); err != nil {
		return nil, fmt.Errorf("creating schema_migrations: %w", err)
	}
	applied, err := m.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, mig := range m.migrations {
		if !applied[mig.version.String()] {
			pending = append(pending, mig.version.String())
		}
	}
	return pending, nil
}
