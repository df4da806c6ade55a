package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
)

// Repository defines persistence operations for shopper addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, addr *models.Address) (*models.Address, error)
	Update(ctx context.Context, addr *models.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	ClearDefaults(ctx context.Context, userID uuid.UUID, covering enums.AddressType) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an address repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, addr *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Create(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *repository) Update(ctx context.Context, addr *models.Address) error {
	return r.db.WithContext(ctx).Save(addr).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id).Error
}

func (r *repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&out).Error
	return out, err
}

// ClearDefaults unsets is_default on every address of the user whose type
// overlaps the given one. "both" overlaps everything.
func (r *repository) ClearDefaults(ctx context.Context, userID uuid.UUID, covering enums.AddressType) error {
	q := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND is_default = true", userID)

	if covering != enums.AddressTypeBoth {
		q = q.Where("type IN ?", []enums.AddressType{covering, enums.AddressTypeBoth})
	}
	return q.UpdateColumn("is_default", false).Error
}
