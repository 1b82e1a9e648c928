package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/karrito/internal/db"
	"github.com/vytor/karrito/internal/errors"
)

func TestManager_ConnectCreatesDirectoryAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", ".karrito", "karrito_launcher.db")
	m := db.NewManager(path)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Connect(ctx))
	first, err := m.Handle(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Connect(ctx))
	second, err := m.Handle(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestManager_AppliesPragmas(t *testing.T) {
	ctx := context.Background()
	m := db.NewManager(filepath.Join(t.TempDir(), "launcher.db"))
	t.Cleanup(func() { _ = m.Close() })

	h, err := m.Handle(ctx)
	require.NoError(t, err)

	var fk int
	require.NoError(t, h.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var mode string
	require.NoError(t, h.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestManager_ReconnectsAfterExternalClose(t *testing.T) {
	ctx := context.Background()
	m := db.NewManager(filepath.Join(t.TempDir(), "launcher.db"))
	t.Cleanup(func() { _ = m.Close() })

	h, err := m.Handle(ctx)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	h2, err := m.Handle(ctx)
	require.NoError(t, err)
	assert.NotSame(t, h, h2)
	assert.True(t, m.TestConnection(ctx))
}

func TestManager_CloseTwice(t *testing.T) {
	m := db.NewManager(filepath.Join(t.TempDir(), "launcher.db"))
	require.NoError(t, m.Connect(context.Background()))

	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestManager_UncreatableDirectoryIsStorageError(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	m := db.NewManager(filepath.Join(blocker, "sub", "launcher.db"))
	err := m.Connect(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStorage))
	assert.False(t, m.TestConnection(context.Background()))
}
