package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shopcircle/backend/pkg/types"
)

// OrderItem freezes a cart item at order-creation time. Price and product
// metadata stay fixed regardless of later product changes.
type OrderItem struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	ProductTitle   string               `gorm:"column:product_title;not null"`
	ProductImages  pq.StringArray       `gorm:"column:product_images;type:text[]"`
	Quantity       int                  `gorm:"column:quantity;not null"`
	UnitPriceCents int                  `gorm:"column:unit_price_cents;not null"`
	SubtotalCents  int                  `gorm:"column:subtotal_cents;not null"`
	Attributes     types.ItemAttributes `gorm:"column:attributes;type:jsonb;serializer:json"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}
