package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is one directed follower edge between two users.
type Follow struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FollowerID uuid.UUID `gorm:"column:follower_id;type:uuid;not null;index:idx_follows_pair,unique"`
	FolloweeID uuid.UUID `gorm:"column:followee_id;type:uuid;not null;index:idx_follows_pair,unique"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
