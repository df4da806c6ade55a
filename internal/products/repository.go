package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the given products in one round trip. Missing IDs are
// simply absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}

	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]models.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// List returns a cursor page of active products, newest first, optionally
// filtered by a case-insensitive title search.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = true")

	if query.search != "" {
		q = q.Where("title ILIKE ?", "%"+query.search+"%")
	}
	if query.cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", query.cursor.CreatedAt, query.cursor.ID)
	}

	var out []models.Product
	err := q.Order("created_at DESC, id DESC").
		Limit(query.limit).
		Find(&out).Error
	return out, err
}

// DecrementStock atomically reduces stock for a purchased product. Returns
// gorm.ErrRecordNotFound when stock is insufficient so callers can surface a
// conflict instead of overselling.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
