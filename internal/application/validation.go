package application

import (
	"errors"
	"regexp"
	"time"

	"github.com/example/interview-scheduler/internal/persistence"
)

// emailPattern accepts the local@domain.tld shape the booking form expects.
// It intentionally matches the original registration rule rather than the
// full RFC grammar.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// timePattern accepts slot labels of the form "19:30".
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func validTimeLabel(label string) bool {
	return timePattern.MatchString(label)
}

func validClassification(classification string) bool {
	switch classification {
	case ClassificationInterview, ClassificationSubmission, ClassificationEvent:
		return true
	}
	return false
}

// mapRepositoryError translates persistence sentinels into application errors
// and wraps everything else as a retryable StorageError.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrConflict
	case errors.Is(err, persistence.ErrConstraintViolation):
		return ErrConflict
	}
	return &StorageError{Err: err}
}
