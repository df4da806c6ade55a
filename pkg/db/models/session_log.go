package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionLog is the audit trail row written at login and closed at logout.
// SessionID is the JWT jti, matching the Redis session key.
type SessionLog struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	SessionID string     `gorm:"column:session_id;not null;uniqueIndex"`
	LoginAt   time.Time  `gorm:"column:login_at;not null"`
	LogoutAt  *time.Time `gorm:"column:logout_at"`
	IP        *string    `gorm:"column:ip"`
	UserAgent *string    `gorm:"column:user_agent"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
