package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Common database error types that can be used by consumers of this package.
// These provide a standardized set of errors that abstract away the
// underlying database-specific error details.
var (
	// ErrRecordNotFound is returned when a query doesn't find any matching records
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when an operation violates a foreign key constraint
	ErrForeignKey = errors.New("foreign key violation")

	// ErrInvalidData is returned when the data being saved doesn't meet validation rules
	ErrInvalidData = errors.New("invalid data")
)

// ErrorCategory classifies driver errors for retry decisions.
type ErrorCategory int

const (
	// CategoryUnknown covers errors this package cannot classify.
	CategoryUnknown ErrorCategory = iota

	// CategoryRetryable covers transient conflicts that are safe to retry
	// as a whole transaction (serialization failures, deadlocks).
	CategoryRetryable

	// CategoryTemporary covers infrastructure conditions that usually clear
	// up on their own (connection loss, resource exhaustion).
	CategoryTemporary

	// CategoryCritical covers programming or schema errors that will fail
	// identically on every retry.
	CategoryCritical
)

// TranslateError converts GORM/database-specific errors into standardized
// application errors. If an error doesn't match any known type, it's returned
// unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrInvalidData):
		return ErrInvalidData
	}

	return err
}

// GetErrorCategory inspects the Postgres SQLSTATE of err and assigns it to a
// retry category. Errors without a SQLSTATE are CategoryUnknown.
func GetErrorCategory(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return CategoryUnknown
	}

	switch pgErr.Code {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03": // lock_not_available
		return CategoryRetryable
	}

	if len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "08", // connection exceptions
			"53", // insufficient resources
			"57": // operator intervention (admin shutdown, crash shutdown)
			return CategoryTemporary
		case "42", // syntax error or access rule violation
			"22", // data exception
			"23": // integrity constraint violation
			return CategoryCritical
		}
	}

	return CategoryUnknown
}

// IsRetryable reports whether the failed transaction can be retried as a whole.
func (d *Database) IsRetryable(err error) bool {
	return GetErrorCategory(err) == CategoryRetryable
}

// IsTemporary reports whether the error stems from a transient infrastructure
// condition rather than the statement itself.
func (d *Database) IsTemporary(err error) bool {
	return GetErrorCategory(err) == CategoryTemporary
}

// IsCritical reports whether the error will fail identically on every retry.
func (d *Database) IsCritical(err error) bool {
	return GetErrorCategory(err) == CategoryCritical
}

// TranslateError is the method form of the package-level TranslateError,
// so the classification surface is available on the client itself.
func (d *Database) TranslateError(err error) error {
	return TranslateError(err)
}
