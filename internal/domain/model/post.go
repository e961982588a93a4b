package model

import (
	"time"
)

type PostType string

const (
	PostTypeGeneral     PostType = "post"
	PostTypeOpportunity PostType = "opportunity"
	PostTypeEvent       PostType = "event"
	PostTypeAdmin       PostType = "admin"
)

// Valid reports whether t names a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeGeneral, PostTypeOpportunity, PostTypeEvent, PostTypeAdmin:
		return true
	}
	return false
}

type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	MediaID   *int64    `json:"media_id,omitempty"`
	Type      PostType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`

	// Joined for feed reads
	AuthorName string  `json:"author_name,omitempty"`
	AuthorPic  *string `json:"author_pic,omitempty"`
	MediaURL   *string `json:"media_url,omitempty"`
}
