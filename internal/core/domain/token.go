package domain

import "time"

// TokenPayload is the verified content of an access token.
type TokenPayload struct {
	UserID    string
	ExpiresAt time.Time
}
