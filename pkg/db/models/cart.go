package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcircle/backend/pkg/enums"
)

// Cart is the server-owned collection of pending purchase intents for one
// user. TotalCents and ItemCount are always recomputed from Items on write;
// readers may trust the stored aggregates.
type Cart struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Status     enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	TotalCents int              `gorm:"column:total_cents;not null;default:0"`
	ItemCount  int              `gorm:"column:item_count;not null;default:0"`
	ExpiresAt  time.Time        `gorm:"column:expires_at;not null"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
