package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
)

// MemoryPath opens a private in-memory database. Data is lost on reconnect.
const MemoryPath = ":memory:"

// Manager owns the single handle to the launcher database file.
type Manager struct {
	mu          sync.Mutex
	path        string
	busyTimeout time.Duration
	db          *sql.DB
	log         *logger.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.busyTimeout = d
	}
}

// WithLogger overrides the manager's logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) {
		m.log = l.WithPrefix("db")
	}
}

// NewManager returns a manager for path. Nothing is opened until Connect.
func NewManager(path string, opts ...Option) *Manager {
	m := &Manager{
		path:        path,
		busyTimeout: 5 * time.Second,
		log:         logger.Default().WithPrefix("db"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the database file path.
func (m *Manager) Path() string {
	return m.path
}

// Connect opens the database if it is not already open. It is idempotent.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return nil
	}
	return m.connectLocked(ctx)
}

func (m *Manager) connectLocked(ctx context.Context) error {
	if m.path == "" {
		return errors.NewStorageError("database path is empty", nil)
	}
	if m.path != MemoryPath {
		dir := filepath.Dir(m.path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			m.log.Error("failed to create data directory %s: %v", dir, err)
			return errors.NewStorageError("create data directory "+dir, err)
		}
	}

	m.log.Info("opening database: %s (driver=%s)", m.path, DriverName)
	sqlDB, err := sql.Open(DriverName, m.path)
	if err != nil {
		m.log.Error("failed to open database: %v", err)
		return errors.NewStorageError("open database "+m.path, err)
	}

	// SQLite allows one writer; a single connection also keeps the pragmas
	// below and in-memory databases bound to one session.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", m.busyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			m.log.Error("failed to apply %q: %v", pragma, err)
			return errors.NewStorageError("configure database", err)
		}
	}

	m.db = sqlDB
	m.log.Debug("database connection established")
	return nil
}

// Handle returns the live handle, reconnecting if it was closed underneath us.
func (m *Manager) Handle(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		err := m.db.PingContext(ctx)
		if err == nil {
			return m.db, nil
		}
		m.log.Warn("database handle unusable, reconnecting: %v", err)
		_ = m.db.Close()
		m.db = nil
	}
	if err := m.connectLocked(ctx); err != nil {
		return nil, err
	}
	return m.db, nil
}

// Close releases the handle. Calling it more than once is safe.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	if err != nil {
		m.log.Error("failed to close database: %v", err)
		return errors.NewStorageError("close database", err)
	}
	m.log.Info("database connection closed")
	return nil
}

// TestConnection runs a trivial round trip. It never returns an error.
func (m *Manager) TestConnection(ctx context.Context) bool {
	sqlDB, err := m.Handle(ctx)
	if err != nil {
		m.log.Error("connection test failed: %v", err)
		return false
	}
	var one int
	if err := sqlDB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		m.log.Error("connection test failed: %v", err)
		return false
	}
	return one == 1
}
