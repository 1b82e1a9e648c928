package db

import (
	"context"
	"database/sql"
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaVersionKey is the metadata row holding the applied version.
const SchemaVersionKey = "schema_version"

// Migration is one versioned, idempotent DDL/DML batch.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Handler hands out the live database handle.
type Handler interface {
	Handle(ctx context.Context) (*sql.DB, error)
}

// LoadMigrations reads the embedded NNNN_name.sql files in version order.
func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationsFS, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		prefix, name, ok := strings.Cut(strings.TrimSuffix(entry.Name(), ".sql"), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNNN_name.sql", entry.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", entry.Name(), prefix)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration %s: version %d already used by %s", entry.Name(), version, other)
		}
		seen[version] = entry.Name()

		body, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// SchemaManager brings the schema up to the latest migration.
type SchemaManager struct {
	conn       Handler
	migrations []Migration
	log        *logger.Logger
}

// NewSchemaManager uses the embedded migrations.
func NewSchemaManager(conn Handler) (*SchemaManager, error) {
	migrations, err := LoadMigrations()
	if err != nil {
		return nil, errors.NewStorageError("load migrations", err)
	}
	return NewSchemaManagerWith(conn, migrations), nil
}

// NewSchemaManagerWith uses the given migrations, which must be sorted by version.
func NewSchemaManagerWith(conn Handler, migrations []Migration) *SchemaManager {
	return &SchemaManager{
		conn:       conn,
		migrations: migrations,
		log:        logger.Default().WithPrefix("schema"),
	}
}

// TargetVersion is the highest known migration version.
func (s *SchemaManager) TargetVersion() int {
	if len(s.migrations) == 0 {
		return 0
	}
	return s.migrations[len(s.migrations)-1].Version
}

// EnsureSchema applies every migration newer than the stored version.
// Any error is fatal: the caller must not use a partially migrated store.
func (s *SchemaManager) EnsureSchema(ctx context.Context) error {
	sqlDB, err := s.conn.Handle(ctx)
	if err != nil {
		return err
	}

	if err := createMetadataTable(ctx, sqlDB); err != nil {
		s.log.Error("failed to create metadata table: %v", err)
		return errors.NewStorageError("create metadata table", err)
	}

	current, err := s.readVersion(ctx, sqlDB)
	if err != nil {
		return errors.NewStorageError("read schema version", err)
	}
	target := s.TargetVersion()
	s.log.Info("schema version: current=%d target=%d", current, target)

	if current >= target {
		s.log.Debug("schema up to date")
		return nil
	}

	for _, m := range s.migrations {
		if m.Version <= current {
			continue
		}
		s.log.Info("applying migration %04d_%s", m.Version, m.Name)
		if _, err := sqlDB.ExecContext(ctx, m.SQL); err != nil {
			s.log.Error("migration %04d_%s failed: %v", m.Version, m.Name, err)
			return errors.NewStorageError(fmt.Sprintf("apply migration %04d_%s", m.Version, m.Name), err)
		}
		if err := writeVersion(ctx, sqlDB, m.Version); err != nil {
			s.log.Error("failed to record schema version %d: %v", m.Version, err)
			return errors.NewStorageError("record schema version", err)
		}
		s.log.Info("migration %04d_%s applied", m.Version, m.Name)
	}
	return nil
}

// Version returns the stored schema version, 0 for an empty store.
func (s *SchemaManager) Version(ctx context.Context) (int, error) {
	sqlDB, err := s.conn.Handle(ctx)
	if err != nil {
		return 0, err
	}
	if err := createMetadataTable(ctx, sqlDB); err != nil {
		return 0, errors.NewStorageError("create metadata table", err)
	}
	return s.readVersion(ctx, sqlDB)
}

func createMetadataTable(ctx context.Context, sqlDB *sql.DB) error {
	_, err := sqlDB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`)
	return err
}

func (s *SchemaManager) readVersion(ctx context.Context, sqlDB *sql.DB) (int, error) {
	var raw string
	err := sqlDB.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, SchemaVersionKey).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	version, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.log.Warn("unparsable schema version %q, assuming 0", raw)
		return 0, nil
	}
	return version, nil
}

func writeVersion(ctx context.Context, sqlDB *sql.DB, version int) error {
	_, err := sqlDB.ExecContext(ctx, `
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, SchemaVersionKey, strconv.Itoa(version))
	return err
}
