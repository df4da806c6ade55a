package models

import (
	"time"

	"github.com/google/uuid"
)

// GamificationProfile accumulates a user's points. Level is derived from
// points in the service layer, never stored.
type GamificationProfile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Points    int       `gorm:"column:points;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
