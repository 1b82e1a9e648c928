package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/karrito/internal/db"
)

// NewTestStore opens a file-backed store in a temp dir with every migration
// applied. A file is used instead of :memory: so WAL and reconnects behave as
// in production.
func NewTestStore(t *testing.T) *db.Manager {
	t.Helper()
	m := db.NewManager(filepath.Join(t.TempDir(), "launcher.db"))
	t.Cleanup(func() { _ = m.Close() })

	ctx := context.Background()
	require.NoError(t, m.Connect(ctx))

	schema, err := db.NewSchemaManager(m)
	require.NoError(t, err)
	require.NoError(t, schema.EnsureSchema(ctx))
	return m
}

// Exec runs a raw statement against the store, for fixtures the repositories
// do not expose.
func Exec(t *testing.T, m *db.Manager, query string, args ...any) {
	t.Helper()
	h, err := m.Handle(context.Background())
	require.NoError(t, err)
	_, err = h.Exec(query, args...)
	require.NoError(t, err)
}

// CountActive returns how many profiles carry is_active = 1.
func CountActive(t *testing.T, m *db.Manager) int {
	t.Helper()
	h, err := m.Handle(context.Background())
	require.NoError(t, err)
	var n int
	require.NoError(t, h.QueryRow(`SELECT COUNT(*) FROM user_profiles WHERE is_active = 1`).Scan(&n))
	return n
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
