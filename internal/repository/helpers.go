package repository

import (
	"database/sql"
	"time"
)

// Timestamps are persisted as unix seconds (signed 64-bit); amounts as
// int64 column values reinterpreted as uint64 in the domain layer.

// unixOrNil converts a *time.Time to a nullable unix-seconds value.
func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// timeFromUnix converts stored unix seconds back to a UTC time.
func timeFromUnix(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

// timePtrFromNull converts a nullable unix-seconds column to *time.Time.
func timePtrFromNull(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := timeFromUnix(v.Int64)
	return &t
}

// strOrNil converts a *string to a nullable column value.
func strOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// strPtrFromNull converts a nullable text column to *string.
func strPtrFromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}
