// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "errors"

var (
	// ErrNoElection: no election is currently running
	ErrNoElection = errors.New("no election is currently running")

	// ErrAlreadyRunning: an election exists that has not reached END
	ErrAlreadyRunning = errors.New("an election is already running")

	// ErrInvalidTransition: state machine misuse - advancing past END,
	// forcing a backwards jump, or an unknown phase name
	ErrInvalidTransition = errors.New("invalid phase transition")

	// ErrPhaseViolation: the operation is not legal in the current phase
	ErrPhaseViolation = errors.New("operation not valid in current phase")

	// ErrUnauthorized: the identity lacks the required capability or is
	// not an eligible voter
	ErrUnauthorized = errors.New("not authorized")
)

// ValidationError reports a malformed payload. Surfaced to clients as a
// 400 with the reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}
