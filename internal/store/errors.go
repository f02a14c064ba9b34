package store

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrConflict is returned when a write hits a unique constraint.
	ErrConflict = errors.New("store: unique constraint violated")
	// ErrStaleVersion is returned when an update loses an optimistic version check.
	ErrStaleVersion = errors.New("store: row was modified concurrently")
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func mapWriteErr(err error) error {
	if err != nil && isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// checkVersioned turns a versioned UPDATE that touched no row into ErrStaleVersion.
func checkVersioned(res sql.Result, err error) error {
	if err != nil {
		return mapWriteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleVersion
	}
	return nil
}
