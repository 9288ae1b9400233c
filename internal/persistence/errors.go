package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a write would violate a uniqueness rule,
	// either a reservation slot or an employee email.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrConstraintViolation is returned when a write is rejected by a
	// storage-level constraint other than uniqueness.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
