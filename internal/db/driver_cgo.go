//go:build !purego

package db

// Default build: github.com/mattn/go-sqlite3 (requires CGO).
//
//   CGO_ENABLED=1 go build ./...

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the database/sql driver used by Manager.
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration.
	BuildMode = "cgo"
)

// IsUniqueViolation reports whether err is a UNIQUE constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
