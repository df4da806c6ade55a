package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shopcircle/backend/pkg/types"
)

// CartItem is one purchase intent inside a cart. Unit price and the product
// display fields are snapshotted at add time; stock checks re-read the
// product row.
type CartItem struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID            `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID      uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	Quantity       int                  `gorm:"column:quantity;not null"`
	UnitPriceCents int                  `gorm:"column:unit_price_cents;not null"`
	SubtotalCents  int                  `gorm:"column:subtotal_cents;not null"`
	ProductTitle   string               `gorm:"column:product_title;not null"`
	ProductImages  pq.StringArray       `gorm:"column:product_images;type:text[]"`
	StockQuantity  int                  `gorm:"column:stock_quantity;not null;default:0"`
	Attributes     types.ItemAttributes `gorm:"column:attributes;type:jsonb;serializer:json"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
