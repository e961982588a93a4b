package model

import (
	"time"
)

// Media references an object stored externally. The row is recorded when an
// upload slot is issued, before the client-side upload completes.
type Media struct {
	ID          int64     `json:"id"`
	ObjectKey   string    `json:"-"`
	ResourceURL string    `json:"resource_url"`
	CreatedAt   time.Time `json:"created_at"`
}
