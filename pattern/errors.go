/*
errors.go - Centralized error types for pattern resolution

PURPOSE:
  All resolution errors in one place. Three conditions are terminal for
  a resolution request; everything below them (malformed dates,
  non-numeric minutes, bad allow-list tokens) resolves to a documented
  fallback instead of an error, so one bad field never aborts an
  otherwise valid record.

ERROR CATEGORIES:
  1. InvalidInputError       - document is not a non-empty pattern list
  2. NoCandidateError        - no pattern has a selectable assignment
  3. MissingScheduleDataError - winner carries no usable week data

USAGE:
  Callers match with errors.Is against the sentinels:

    if errors.Is(err, pattern.ErrNoCandidate) {
        // "no applicable schedule" for this employee
    }
*/
package pattern

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when the upstream document is not a
	// non-empty sequence of pattern definitions.
	ErrInvalidInput = errors.New("invalid work pattern document")

	// ErrNoCandidate is returned when no pattern definition has a
	// matching, selectable assignment for the employee.
	ErrNoCandidate = errors.New("no work pattern assignment found")

	// ErrMissingScheduleData is returned when the winning pattern has
	// no week tables to aggregate.
	ErrMissingScheduleData = errors.New("missing week data")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid work pattern document: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

type NoCandidateError struct {
	EmployeeID string
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("no work pattern assignment found for employee_id=%s", e.EmployeeID)
}

func (e *NoCandidateError) Unwrap() error { return ErrNoCandidate }

type MissingScheduleDataError struct {
	DefinitionID string
}

func (e *MissingScheduleDataError) Error() string {
	return fmt.Sprintf("work pattern %s has no week data (expected list or object)", e.DefinitionID)
}

func (e *MissingScheduleDataError) Unwrap() error { return ErrMissingScheduleData }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true when the error means "no applicable schedule"
// rather than a malformed request.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoCandidate)
}

// IsClientError returns true if the error is due to unusable input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNoCandidate) ||
		errors.Is(err, ErrMissingScheduleData)
}
