package models

import (
	"time"

	"github.com/google/uuid"
)

// Badge is a grantable achievement in the catalog.
type Badge struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string    `gorm:"column:code;not null;uniqueIndex"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	IconURL     *string   `gorm:"column:icon_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// UserBadge records a badge granted to a user.
type UserBadge struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index:idx_user_badges_pair,unique"`
	BadgeID   uuid.UUID  `gorm:"column:badge_id;type:uuid;not null;index:idx_user_badges_pair,unique"`
	GrantedBy *uuid.UUID `gorm:"column:granted_by;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
