package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgpagination "github.com/shopcircle/backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their rollups.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	CreateStatusEvent(ctx context.Context, event *models.OrderStatusEvent) error
	DecrementProductStock(ctx context.Context, productID uuid.UUID, qty int) error
	RestockProduct(ctx context.Context, productID uuid.UUID, qty int) error
	FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, query listQuery) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// listQuery is the repo-level shape of a cursor page request.
type listQuery struct {
	userID uuid.UUID
	status *enums.OrderStatus
	limit  int
	cursor *pkgpagination.Cursor
}
