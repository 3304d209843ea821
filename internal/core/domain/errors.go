package domain

import "errors"

// Sentinel errors shared by every store backend and the services on top.
// Adapters translate their native failures (pq codes, sqlite result codes,
// redis.Nil, sql.ErrNoRows) into these before returning; anything that does
// not fit is wrapped with %w and passed through unclassified.
var (
	// ErrEmailExists is returned when an insert would create a second user
	// with the same email. The store's uniqueness constraint is the final
	// authority for this condition.
	ErrEmailExists = errors.New("email already exists")

	// ErrUserNotFound is returned by user lookups and updates that miss.
	ErrUserNotFound = errors.New("user not found")

	// ErrPreferencesNotFound is returned when a user has no preference record.
	ErrPreferencesNotFound = errors.New("preferences not found")

	// ErrStoreUnavailable is returned when the backend cannot be reached or
	// prepared: failed dial, failed ping, exhausted timeout.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidCredentials is returned by login when the password does not
	// match the stored hash. Callers exposing an external API should present
	// it identically to ErrUserNotFound so account existence does not leak.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
