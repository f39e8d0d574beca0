package instagram

import "errors"

var (
	// ErrNotFound is returned when the profile does not exist (HTTP 404).
	ErrNotFound = errors.New("profile not found")

	// ErrUnauthorized is returned on HTTP 401/403, usually a stale or
	// invalid session.
	ErrUnauthorized = errors.New("unauthorized or forbidden - check cookies/login")

	// ErrRateLimited is returned on HTTP 429.
	ErrRateLimited = errors.New("rate limited - wait before trying again")

	// ErrMalformedResponse is returned when the API answers 200 but the
	// expected user object or id is missing.
	ErrMalformedResponse = errors.New("user object not found in response")
)
