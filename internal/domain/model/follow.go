package model

import (
	"time"
)

// Follow is a directed edge: follower subscribes to following's posts.
// The (follower, following) pair is unique at the store level.
type Follow struct {
	ID          int64     `json:"id"`
	FollowerID  int64     `json:"follower_id"`
	FollowingID int64     `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
