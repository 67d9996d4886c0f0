package customerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError signals that a referenced row does not exist. Distinct from
// a guarded update touching zero rows, which surfaces as ConflictError.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError signals malformed input that must not reach the ledger.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ConflictError signals a lost-update race detected by the unit of work.
// Callers may retry the whole operation.
type ConflictError struct {
	Err string
}

func (e *ConflictError) Error() string {
	return e.Err
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
