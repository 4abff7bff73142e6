package models

import (
	"time"
)

// User is a stored account row. PasswordHash never leaves the auth boundary.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
