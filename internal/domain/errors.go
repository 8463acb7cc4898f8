package domain

import "errors"

// Error taxonomy shared by all services. Handlers map these onto HTTP
// statuses: 400, 401, 403, 404, 409 and 502 respectively.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrStateConflict   = errors.New("state conflict")
	ErrExternalService = errors.New("external service error")
)
