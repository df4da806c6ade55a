package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is the catalog entity carts and orders snapshot from.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string         `gorm:"column:title;not null"`
	Description   *string        `gorm:"column:description"`
	PriceCents    int            `gorm:"column:price_cents;not null"`
	StockQuantity int            `gorm:"column:stock_quantity;not null;default:0"`
	Images        pq.StringArray `gorm:"column:images;type:text[]"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
