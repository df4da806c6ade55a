package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopcircle/backend/pkg/db/models"
)

// Repository defines persistence for system settings and the read-only
// database inspection queries.
type Repository interface {
	Find(ctx context.Context, key string) (*models.SystemSetting, error)
	List(ctx context.Context) ([]models.SystemSetting, error)
	Upsert(ctx context.Context, setting *models.SystemSetting) error
	Delete(ctx context.Context, key string) (bool, error)
	TableCounts(ctx context.Context) ([]TableCount, error)
}

// TableCount is one row of the admin inspection view.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// inspectedTables is the fixed allow-list the inspection endpoint may touch.
// Raw identifiers never come from request input.
var inspectedTables = []string{
	"users",
	"session_logs",
	"products",
	"carts",
	"cart_items",
	"addresses",
	"orders",
	"order_items",
	"order_status_events",
	"gamification_profiles",
	"badges",
	"user_badges",
	"follows",
	"system_settings",
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) List(ctx context.Context) ([]models.SystemSetting, error) {
	var out []models.SystemSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&out).Error
	return out, err
}

func (r *repository) Upsert(ctx context.Context, setting *models.SystemSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(setting).Error
}

func (r *repository) Delete(ctx context.Context, key string) (bool, error) {
	res := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.SystemSetting{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) TableCounts(ctx context.Context) ([]TableCount, error) {
	out := make([]TableCount, 0, len(inspectedTables))
	for _, table := range inspectedTables {
		var count int64
		if err := r.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			return nil, err
		}
		out = append(out, TableCount{Table: table, Rows: count})
	}
	return out, nil
}
