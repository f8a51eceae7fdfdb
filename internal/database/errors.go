package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Error kinds handlers translate into response codes. Repositories wrap
// store failures with one of these so callers can distinguish a missing
// row (404) or a uniqueness race (409) from a generic store failure (500).
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// translateError maps driver-level errors onto the repository error kinds.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrConflict
	default:
		return err
	}
}
