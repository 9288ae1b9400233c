package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when a write would violate a uniqueness rule:
	// a double-booked interview slot or a duplicate employee email.
	ErrConflict = errors.New("application: conflict")
	// ErrUnauthorized is returned when the caller presents no valid access token.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrInvalidCredentials is returned when the access password does not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
)

// StorageError wraps infrastructure failures from the backing store. It is
// the only error kind a caller may meaningfully retry.
type StorageError struct {
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e == nil || e.Err == nil {
		return "storage failure"
	}
	return fmt.Sprintf("storage failure: %v", e.Err)
}

// Unwrap exposes the underlying infrastructure error.
func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
