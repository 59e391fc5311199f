package domain

import "time"

type UserID int64

// User is the persisted account record. Role and CompanyID are the
// authorization attributes embedded into issued tokens; Active gates login
// and refresh.
type User struct {
	ID           UserID
	Email        string
	PasswordHash string
	Role         string
	CompanyID    int64
	Active       bool
	CreatedAt    time.Time
}
