// Package apperr defines the error taxonomy shared by all services.
// Services wrap these sentinels with %w and context; the HTTP layer maps
// them to status codes in one place (internal/server).
package apperr

import "errors"

var (
	// ErrConflict signals a uniqueness violation (duplicate email, already
	// accepted invitation).
	ErrConflict = errors.New("conflict")
	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRole signals that an actor has the wrong structural role for
	// an operation (e.g. createTeamMember on a non-CLIENT id). Distinct from
	// ErrForbidden: the credential may be fine, the target entity is not.
	ErrInvalidRole = errors.New("invalid role")
	// ErrExpired signals a time-bound resource past its validity.
	ErrExpired = errors.New("expired")
	// ErrUnauthenticated signals a missing or invalid credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden signals a valid credential with insufficient role or
	// tenant mismatch.
	ErrForbidden = errors.New("forbidden")
	// ErrUnavailable signals a store-level I/O failure, distinct from all
	// domain errors. Not retried here; retry policy belongs to the store.
	ErrUnavailable = errors.New("unavailable")
	// ErrInvalidArgument signals malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
)
