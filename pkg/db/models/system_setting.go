package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemSetting is one key/value row of operator-tunable configuration.
type SystemSetting struct {
	Key       string     `gorm:"column:key;primaryKey"`
	Value     any        `gorm:"column:value;type:jsonb;serializer:json"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
