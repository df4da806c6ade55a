package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcircle/backend/pkg/enums"
	"github.com/shopcircle/backend/pkg/types"
)

// Order is the immutable (from the shopper's view) record of a completed
// checkout. Address content is frozen as jsonb snapshots, independent of
// later edits to the saved address.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string                 `gorm:"column:order_number;not null;uniqueIndex"`
	UserID          uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus      `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus    `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentMethod   string                 `gorm:"column:payment_method;not null"`
	ShippingMethod  enums.ShippingMethod   `gorm:"column:shipping_method;not null"`
	SubtotalCents   int                    `gorm:"column:subtotal_cents;not null"`
	TaxCents        int                    `gorm:"column:tax_cents;not null"`
	ShippingCents   int                    `gorm:"column:shipping_cents;not null"`
	DiscountCents   int                    `gorm:"column:discount_cents;not null;default:0"`
	TotalCents      int                    `gorm:"column:total_cents;not null"`
	ShippingAddress types.AddressSnapshot  `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  *types.AddressSnapshot `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Items           []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []OrderStatusEvent     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CancelledAt     *time.Time             `gorm:"column:cancelled_at"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
