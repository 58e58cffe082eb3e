package services

import (
	"errors"
	"fmt"

	"skillbox/internal/entitlement"
)

// Service error taxonomy. Handlers return these unwrapped; the HTTP layer
// maps them to status codes in one place.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is the parent of all malformed-input failures.
	ErrValidation    = errors.New("invalid input")
	ErrEmptyReason   = fmt.Errorf("%w: reason must not be empty", ErrValidation)
	ErrInvalidStatus = fmt.Errorf("%w: decision status must be approved or rejected", ErrValidation)
	ErrInvalidRole   = fmt.Errorf("%w: unknown user role", ErrValidation)

	// ErrDuplicatePending: a second request while one is pending for the
	// same (user, course) pair.
	ErrDuplicatePending = errors.New("a pending access request already exists for this course")

	// ErrInvalidTransition: decide called on a request that is no longer
	// pending. Transitions are one-shot.
	ErrInvalidTransition = errors.New("access request has already been decided")

	// ErrConflict: a concurrent mutation lost the race.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrUpstream: the storage backend failed while minting a download
	// reference. Never accompanied by a download event.
	ErrUpstream = errors.New("storage backend failure")
)

// EntitlementError reports a download refused on policy grounds. It carries
// the evaluator's decision so the caller can render "pending approval"
// differently from "request access".
type EntitlementError struct {
	Decision entitlement.Decision
}

func (e *EntitlementError) Error() string {
	return fmt.Sprintf("download not permitted: entitlement is %s", e.Decision)
}

func (e *EntitlementError) Unwrap() error { return ErrForbidden }
