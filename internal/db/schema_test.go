package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/karrito/internal/db"
	"github.com/vytor/karrito/internal/errors"
)

func newManager(t *testing.T) *db.Manager {
	t.Helper()
	m := db.NewManager(filepath.Join(t.TempDir(), "launcher.db"))
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Connect(context.Background()))
	return m
}

func count(t *testing.T, m *db.Manager, query string, args ...any) int {
	t.Helper()
	h, err := m.Handle(context.Background())
	require.NoError(t, err)
	var n int
	require.NoError(t, h.QueryRow(query, args...).Scan(&n))
	return n
}

func TestLoadMigrations_Ordered(t *testing.T) {
	migrations, err := db.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "initial_schema", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestEnsureSchema_FreshStore(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	sm, err := db.NewSchemaManager(m)
	require.NoError(t, err)

	v, err := sm.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, sm.EnsureSchema(ctx))

	v, err = sm.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, sm.TargetVersion(), v)

	for _, table := range []string{"user_profiles", "launcher_settings", "minecraft_versions", "microsoft_accounts", "launcher_logs", "metadata"} {
		assert.Equal(t, 1, count(t, m, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table), table)
	}
	assert.Equal(t, 8, count(t, m, `SELECT COUNT(*) FROM launcher_settings`))
	assert.Equal(t, 1, count(t, m, `SELECT COUNT(*) FROM launcher_settings WHERE key = 'background_type'`))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	sm, err := db.NewSchemaManager(m)
	require.NoError(t, err)

	require.NoError(t, sm.EnsureSchema(ctx))
	settings := count(t, m, `SELECT COUNT(*) FROM launcher_settings`)

	require.NoError(t, sm.EnsureSchema(ctx))
	require.NoError(t, sm.EnsureSchema(ctx))

	v, err := sm.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, settings, count(t, m, `SELECT COUNT(*) FROM launcher_settings`))
}

func TestEnsureSchema_UpgradeCollapsesMultipleActiveProfiles(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	all, err := db.LoadMigrations()
	require.NoError(t, err)

	require.NoError(t, db.NewSchemaManagerWith(m, all[:1]).EnsureSchema(ctx))
	h, err := m.Handle(ctx)
	require.NoError(t, err)
	_, err = h.Exec(`
INSERT INTO user_profiles (name, display_name, is_active, updated_at) VALUES
    ('old', 'Old', 1, '2024-01-01 00:00:00'),
    ('new', 'New', 1, '2024-06-01 00:00:00')`)
	require.NoError(t, err)

	require.NoError(t, db.NewSchemaManagerWith(m, all).EnsureSchema(ctx))

	assert.Equal(t, 1, count(t, m, `SELECT COUNT(*) FROM user_profiles WHERE is_active = 1`))
	assert.Equal(t, 1, count(t, m, `SELECT COUNT(*) FROM user_profiles WHERE is_active = 1 AND name = 'new'`))

	_, err = h.Exec(`UPDATE user_profiles SET is_active = 1 WHERE name = 'old'`)
	assert.Error(t, err, "second active row must be rejected by the partial unique index")
}

func TestEnsureSchema_FailingMigrationIsFatal(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	migrations := []db.Migration{
		{Version: 1, Name: "ok", SQL: `CREATE TABLE IF NOT EXISTS a (id INTEGER PRIMARY KEY);`},
		{Version: 2, Name: "broken", SQL: `CREATE TABLE oops (;`},
		{Version: 3, Name: "never", SQL: `CREATE TABLE IF NOT EXISTS b (id INTEGER PRIMARY KEY);`},
	}
	sm := db.NewSchemaManagerWith(m, migrations)

	err := sm.EnsureSchema(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStorage))
	assert.Contains(t, err.Error(), "0002_broken")

	v, err := sm.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "version stays at the last fully applied migration")
	assert.Equal(t, 0, count(t, m, `SELECT COUNT(*) FROM sqlite_master WHERE name = 'b'`))
}

func TestEnsureSchema_UnparsableVersionReapplies(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	sm, err := db.NewSchemaManager(m)
	require.NoError(t, err)
	require.NoError(t, sm.EnsureSchema(ctx))

	h, err := m.Handle(ctx)
	require.NoError(t, err)
	_, err = h.Exec(`UPDATE metadata SET value = 'garbage' WHERE key = ?`, db.SchemaVersionKey)
	require.NoError(t, err)

	require.NoError(t, sm.EnsureSchema(ctx))

	v, err := sm.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 8, count(t, m, `SELECT COUNT(*) FROM launcher_settings`))
}
