// services/errors.go - Typed error kinds for the participation engine
package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Precondition failures are returned synchronously as typed errors; nothing is
// retried inside the engine. Handlers map these to HTTP statuses with
// StatusForError.
var (
	ErrNotFound = errors.New("not found")

	// Capacity ledger failure classifications
	ErrTaskNotOpen   = errors.New("task is not open")
	ErrTaskFull      = errors.New("task is full")
	ErrAlreadyMember = errors.New("already assigned to this task")

	// Business-rule failures
	ErrLevelTooLow       = errors.New("level requirement not met")
	ErrWrongMode         = errors.New("operation not valid for this task mode")
	ErrNotApplied        = errors.New("participation is not in applied state")
	ErrNotAccepted       = errors.New("participation is not accepted")
	ErrAlreadyCompleted  = errors.New("participation already completed")
	ErrPendingProof      = errors.New("a pending proof submission already exists")
	ErrProofReviewed     = errors.New("proof submission already reviewed")
	ErrEmptyReason       = errors.New("rejection reason is required")
	ErrEmptyProof        = errors.New("proof text is required")
)

// StatusForError maps engine errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrLevelTooLow):
		return fiber.StatusForbidden
	case errors.Is(err, ErrEmptyReason), errors.Is(err, ErrEmptyProof):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrTaskNotOpen),
		errors.Is(err, ErrTaskFull),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrWrongMode),
		errors.Is(err, ErrNotApplied),
		errors.Is(err, ErrNotAccepted),
		errors.Is(err, ErrAlreadyCompleted),
		errors.Is(err, ErrPendingProof),
		errors.Is(err, ErrProofReviewed):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
