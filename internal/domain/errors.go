package domain

import "errors"

// Sentinel errors returned by the core. Callers classify failures with
// errors.Is; the HTTP layer maps each to a status code in one place.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
)
