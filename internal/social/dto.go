package social

import (
	"time"

	"github.com/google/uuid"
)

// FollowedUser is one entry in a followers/following list.
type FollowedUser struct {
	UserID     uuid.UUID `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FollowedAt time.Time `json:"followed_at"`
}

type ListResult struct {
	Items  []FollowedUser `json:"items"`
	Cursor string         `json:"cursor"`
}

// FollowStatus is the refreshed relationship snapshot returned after every
// follow mutation.
type FollowStatus struct {
	UserID         uuid.UUID `json:"user_id"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	IsFollowing    bool      `json:"is_following"`
}
