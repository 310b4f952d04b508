package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Storage-level error conditions shared across repositories and services.
var (
	// ErrStorageQuotaExceeded is returned when a write is refused for capacity
	// reasons. The attempted write is rolled back, never partially persisted.
	ErrStorageQuotaExceeded = errors.New("storage quota exceeded")

	// ErrSnapshotInvalid is returned when a whole-state snapshot fails the
	// top-level shape check before any collection is touched.
	ErrSnapshotInvalid = errors.New("snapshot shape is invalid")
)

// PostgreSQL SQLSTATE codes for capacity failures.
const (
	sqlStateDiskFull     = "53100"
	sqlStateOutOfMemory  = "53200"
	sqlStateTooManyConns = "53300"
)

// ClassifyWriteError maps driver capacity failures onto
// ErrStorageQuotaExceeded so callers can handle them uniformly.
// Other errors pass through unchanged.
func ClassifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateDiskFull, sqlStateOutOfMemory, sqlStateTooManyConns:
			return errors.Join(ErrStorageQuotaExceeded, err)
		}
	}
	return err
}
