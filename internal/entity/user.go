package entity

import "time"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account mirrored from the identity provider.
type User struct {
	ID         int64
	ExternalID string
	Email      string
	Role       string
	CreatedAt  time.Time
}

// IsAdmin reports whether the user may manage links, channels and analytics.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
