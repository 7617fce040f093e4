package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrTxConflict is returned when Postgres aborts a transaction because of a
// concurrent writer. The operation can be retried.
var ErrTxConflict = errors.New("transaction conflict")

// ErrStatusChanged is returned by a conditional status update when another
// writer changed the booking first, or when the booking does not exist.
var ErrStatusChanged = errors.New("booking status changed concurrently")

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}
