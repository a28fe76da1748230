package models

import "time"

// User captures application-facing fields for an authenticated identity.
// The client never constructs one; it only reflects what the identity
// endpoint returns.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Grade        string    `json:"grade"`
	Region       string    `json:"region"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
