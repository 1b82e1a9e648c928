package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/karrito/internal/logger"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// DBProvider hands out the current database handle. *db.Manager satisfies it
// and reconnects transparently.
type DBProvider interface {
	Handle(ctx context.Context) (*sql.DB, error)
}

// StaticDB adapts an already open *sql.DB.
type StaticDB struct {
	DB *sql.DB
}

// Handle returns the wrapped handle.
func (s StaticDB) Handle(context.Context) (*sql.DB, error) {
	return s.DB, nil
}

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}
