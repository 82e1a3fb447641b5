package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It wraps the underlying driver error detail.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrCheckViolation is returned when a write violates a CHECK constraint,
	// e.g. a stock decrement below zero or a commission rate out of range.
	ErrCheckViolation = errors.New("check constraint violation")

	// ErrForeignKeyViolation is returned when a delete or insert breaks a
	// foreign key reference.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// SQLExecutor is satisfied by *sql.DB and *sql.Tx, letting repository
// methods run either standalone or inside a service-owned transaction.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// translatePQError maps lib/pq constraint errors onto the repository
// sentinels so services can react with errors.Is.
func translatePQError(err error, context string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, context, pqErr.Constraint)
		case "check_violation":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrCheckViolation, context, pqErr.Constraint)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrForeignKeyViolation, context, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, context, err)
}
