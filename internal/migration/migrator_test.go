package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_RejectsBadVersions(t *testing.T) {
	db := openDB(t)

	_, err := New(db, Migration{Version: "one"})
	require.ErrorIs(t, err, ErrInvalidVersion)

	_, err = New(db, Migration{Version: "1.0.0"}, Migration{Version: "1.0.0"})
	require.ErrorIs(t, err, ErrDuplicateVersion)

	// Nothing should have been created by a rejected migrator.
	var n int
	require.NoError(t, db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE name = 'schema_migrations'`).Scan(&n))
	assert.Zero(t, n)
}

func TestUp_OrdersBySemver(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	var order []string
	step := func(name string) func(context.Context, *sql.Tx) error {
		return func(context.Context, *sql.Tx) error {
			order = append(order, name)
			return nil
		}
	}

	m, err := New(db,
		Migration{Version: "1.10.0", Description: "ten", Up: step("1.10.0")},
		Migration{Version: "1.2.0", Description: "two", Up: step("1.2.0")},
		Migration{Version: "1.0.0", Description: "base", SQL: `CREATE TABLE t (id INTEGER)`},
	)
	require.NoError(t, err)

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0", "1.2.0", "1.10.0"}, pending)

	ran, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0", "1.2.0", "1.10.0"}, ran)
	assert.Equal(t, []string{"1.2.0", "1.10.0"}, order)

	current, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", current)

	ran, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, ran, "second run is a no-op")
}

func TestUp_FailureRollsBack(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	m, err := New(db,
		Migration{Version: "1.0.0", Description: "ok", SQL: `CREATE TABLE a (id INTEGER)`},
		Migration{
			Version:     "1.1.0",
			Description: "broken",
			SQL:         `CREATE TABLE b (id INTEGER)`,
			Up: func(context.Context, *sql.Tx) error {
				return errors.New("boom")
			},
		},
	)
	require.NoError(t, err)

	ran, err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, []string{"1.0.0"}, ran)

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE name = 'b'`).Scan(&n))
	assert.Zero(t, n, "failed migration leaves no table behind")

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, applied)
}

func TestCurrent_Empty(t *testing.T) {
	m, err := New(openDB(t))
	require.NoError(t, err)

	_, err = m.Pending(context.Background())
	require.NoError(t, err)

	current, err := m.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, current)
}
