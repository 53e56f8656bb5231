package db

import (
	"errors"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// IsBusy reports whether the error is a transient sqlite lock (SQLITE_BUSY or
// SQLITE_LOCKED), the only contention failure the single-writer notes store
// can hit.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return strings.Contains(err.Error(), "database is locked")
}

// IsReadOnly reports whether the error indicates the notes database file or
// its directory is not writable.
func IsReadOnly(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrReadonly
	}
	return strings.Contains(err.Error(), "readonly database")
}
