package services

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrDuplicateReport   = errors.New("an open report for this target already exists")
	ErrTargetNotFound    = errors.New("reported target does not exist")
	ErrInvalidTransition = errors.New("invalid report status transition")
	ErrConflict          = errors.New("report was modified concurrently, retries exhausted")
	ErrDependency        = errors.New("downstream dependency unavailable")

	// errActionRecorded aborts a CAS update when the mutator finds the
	// identical decision already applied. Mapped to a no-op, never surfaced.
	errActionRecorded = errors.New("action already recorded")
)

// ValidationError describes malformed or out-of-range caller input. It is
// reported to the caller and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
