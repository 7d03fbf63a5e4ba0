package model

import "time"

// Account represents a registered user identity.
// The password is held only as a bcrypt hash and never serialized.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
