package service

import "errors"

// Sentinel errors shared by all services. Handlers map these onto HTTP
// statuses; services never leak transport concerns.
var (
	// ErrValidation flags malformed or out-of-range input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound covers both "does not exist" and "belongs to another
	// user". The two cases are deliberately indistinguishable so a caller
	// cannot probe for other users' data.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized covers failed credential checks. Wrong email and
	// wrong password produce the same error on purpose.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrExpiredOrRevoked marks a refresh credential or session that is no
	// longer usable, including one consumed by a concurrent refresh.
	ErrExpiredOrRevoked = errors.New("session expired or revoked")

	// ErrUpstream wraps failures and timeouts from external providers.
	ErrUpstream = errors.New("upstream provider failure")

	// ErrConflict marks a unique-constraint race. Callers treat it as
	// "already exists" rather than a fatal error.
	ErrConflict = errors.New("conflicting concurrent write")
)
