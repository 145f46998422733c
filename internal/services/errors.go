package services

import "errors"

// Error taxonomy for the submission path. Handlers map these to HTTP
// statuses with errors.Is; services wrap them with fmt.Errorf("%w: ...")
// to carry detail.
var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden marks a student acting on a class they are not enrolled in.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a missing question, assignment, class or student.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSubmission marks a second answer for the same
	// (student, question, assignment) triple. Safe to surface on retries.
	ErrDuplicateSubmission = errors.New("question already answered")
)
