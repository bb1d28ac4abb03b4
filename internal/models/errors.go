package models

import "errors"

// Failure kinds surfaced by the service layer. Handlers match these with
// errors.Is and translate them to HTTP statuses; raw store errors never
// cross this boundary.
var (
	// ErrInvalidCredentials covers a failed login, a token whose subject no
	// longer resolves to a user, and a token missing its subject claim. It is
	// deliberately one error: callers must not learn whether the account
	// exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired means the token was genuine but its lifetime elapsed;
	// the client should re-authenticate.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid means the token failed signature or structural checks.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps pool exhaustion, connectivity loss, and any
	// other persistence-layer fault.
	ErrStoreUnavailable = errors.New("store unavailable")
)
