package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcircle/backend/pkg/enums"
)

// Address is a saved shipping/billing address. At most one address per
// covered type may be the default; the repository enforces that inside a
// transaction when a default changes.
type Address struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Name       string            `gorm:"column:name;not null"`
	Phone      string            `gorm:"column:phone;not null"`
	Line1      string            `gorm:"column:line1;not null"`
	Line2      *string           `gorm:"column:line2"`
	City       string            `gorm:"column:city;not null"`
	State      string            `gorm:"column:state;not null"`
	PostalCode string            `gorm:"column:postal_code;not null"`
	Country    string            `gorm:"column:country;not null;default:'US'"`
	Label      *string           `gorm:"column:label"`
	IsDefault  bool              `gorm:"column:is_default;not null;default:false"`
	Type       enums.AddressType `gorm:"column:type;not null;default:'shipping'"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
