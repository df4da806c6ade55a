package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/internal/cart"
	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	pkgpagination "github.com/shopcircle/backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartAdder interface {
	AddItem(ctx context.Context, userID uuid.UUID, input cart.AddItemInput) (*cart.CartDTO, error)
}

// Service exposes the shopper and admin order operations.
type Service interface {
	ListOrders(ctx context.Context, params ListParams) (*ListResult, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*Detail, error)
	TrackOrder(ctx context.Context, userID, orderID uuid.UUID) (*Tracking, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason string) (*Detail, error)
	Reorder(ctx context.Context, userID, orderID uuid.UUID) (*ReorderResult, error)

	AdminListOrders(ctx context.Context, params ListParams) (*ListResult, error)
	AdminGetOrder(ctx context.Context, orderID uuid.UUID) (*Detail, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, note string) (*Detail, error)
	AdminUpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) (*Detail, error)
}

type service struct {
	repo Repository
	tx   txRunner
	cart cartAdder
	now  func() time.Time
}

// NewService builds the orders service.
func NewService(repo Repository, tx txRunner, cartSvc cartAdder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	return &service{repo: repo, tx: tx, cart: cartSvc, now: time.Now}, nil
}

func (s *service) ListOrders(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	return s.list(ctx, params)
}

func (s *service) AdminListOrders(ctx context.Context, params ListParams) (*ListResult, error) {
	return s.list(ctx, params)
}

func (s *service) list(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		userID: params.UserID,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
	}

	if raw := strings.TrimSpace(params.Status); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.status = &status
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit-1].CreatedAt,
			ID:        rows[limit-1].ID,
		})
		rows = rows[:limit]
	}

	items := make([]Summary, len(rows))
	for i, row := range rows {
		items[i] = toSummary(row)
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*Detail, error) {
	order, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return toDetail(order), nil
}

func (s *service) TrackOrder(ctx context.Context, userID, orderID uuid.UUID) (*Tracking, error) {
	order, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return toTracking(order), nil
}

// CancelOrder cancels the shopper's own order while it has not shipped.
func (s *service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason string) (*Detail, error) {
	order, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Cancelable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
			WithDetails(map[string]any{"status": order.Status.String()})
	}

	now := s.now()
	var notePtr *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		notePtr = &trimmed
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.UpdateStatus(ctx, order.ID, map[string]any{
			"status":       enums.OrderStatusCancelled,
			"cancelled_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if err := repo.CreateStatusEvent(ctx, &models.OrderStatusEvent{
			OrderID: order.ID,
			Status:  enums.OrderStatusCancelled,
			Note:    notePtr,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record cancellation")
		}

		// Cancelled before fulfillment: return reserved stock.
		for _, item := range order.Items {
			if err := repo.RestockProduct(ctx, item.ProductID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock product")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.AdminGetOrder(ctx, order.ID)
}

// Reorder feeds a past order's lines back into the active cart, skipping
// lines that can no longer be purchased.
func (s *service) Reorder(ctx context.Context, userID, orderID uuid.UUID) (*ReorderResult, error) {
	order, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no items to reorder")
	}

	result := &ReorderResult{}
	for _, item := range order.Items {
		_, err := s.cart.AddItem(ctx, userID, cart.AddItemInput{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Attributes: item.Attributes,
		})
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) || pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
				result.SkippedItems++
				result.Issues = append(result.Issues, fmt.Sprintf("%s: no longer available in the requested quantity", item.ProductTitle))
				continue
			}
			return nil, err
		}
		result.AddedItems++
	}

	if result.AddedItems == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no items from this order can be purchased again").
			WithDetails(map[string]any{"issues": result.Issues})
	}
	return result, nil
}

func (s *service) AdminGetOrder(ctx context.Context, orderID uuid.UUID) (*Detail, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toDetail(order), nil
}

// AdminUpdateStatus moves an order to any valid status and appends the
// transition to the history.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, note string) (*Detail, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status == status {
		return toDetail(order), nil
	}

	updates := map[string]any{"status": status}
	if status == enums.OrderStatusCancelled {
		updates["cancelled_at"] = s.now()
	}

	var notePtr *string
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		notePtr = &trimmed
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateStatus(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return repo.CreateStatusEvent(ctx, &models.OrderStatusEvent{
			OrderID: orderID,
			Status:  status,
			Note:    notePtr,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.AdminGetOrder(ctx, orderID)
}

func (s *service) AdminUpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) (*Detail, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, map[string]any{"payment_status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return s.AdminGetOrder(ctx, orderID)
}

func (s *service) findForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
