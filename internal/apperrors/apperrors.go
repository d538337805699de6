package apperrors

import "errors"

// Sentinel errors shared by services and handlers. Services wrap these with
// fmt.Errorf("...: %w", ...) so the HTTP layer can map them with errors.Is.
var (
	// ErrValidation marks malformed or missing required input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced user, challenge or membership that
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate join or a mutation of a membership
	// already in a terminal state.
	ErrConflict = errors.New("conflict")

	// ErrInvariant marks a should-never-happen state such as negative
	// counters. It is logged and surfaced as a 500, never corrected
	// silently.
	ErrInvariant = errors.New("invariant violation")
)
