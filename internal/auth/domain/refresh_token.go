package domain

import "time"

// RefreshToken is the persisted session row: one row per active token,
// keyed by the token value itself.
type RefreshToken struct {
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
