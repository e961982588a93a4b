package model

import (
	"time"
)

type Session struct {
	Token       string    `json:"token"`
	UserID      int64     `json:"user_id"`
	IPAddr      *string   `json:"-"`
	UserAgent   *string   `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Invalidated bool      `json:"-"`
}

// Live reports whether the session authorizes requests at instant now. The
// validity window is open on both ends.
func (s *Session) Live(now time.Time) bool {
	return !s.Invalidated && now.After(s.CreatedAt) && now.Before(s.ExpiresAt)
}

// NearExpiry reports whether now falls inside the final rotation window of the
// session's validity.
func (s *Session) NearExpiry(now time.Time, window time.Duration) bool {
	return !now.Before(s.ExpiresAt.Add(-window))
}
