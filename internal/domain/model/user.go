package model

import (
	"time"
)

const (
	RoleRegular = "regular"
	RoleAdmin   = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not exposed
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Contact      string    `json:"contact"`
	PicID        *int64    `json:"pic,omitempty"`
	Role         string    `json:"role"`
	Onboarded    bool      `json:"onboarded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public projection of a user shown on profile cards and in
// explore results.
type Profile struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Bio     string  `json:"bio"`
	Contact string  `json:"contact,omitempty"`
	PicURL  *string `json:"pic,omitempty"`
}
