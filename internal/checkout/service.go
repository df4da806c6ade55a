package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/internal/cart"
	"github.com/shopcircle/backend/internal/orders"
	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	"github.com/shopcircle/backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartValidator interface {
	Validate(ctx context.Context, userID uuid.UUID) (*cart.ValidateResult, error)
}

type pointsAwarder interface {
	AwardOrderPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalCents int) (int, error)
}

// Service drives the checkout flow through submission.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID, input SubmitInput) (*Quote, error)
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*SubmitResult, error)
}

type service struct {
	cartSvc    cartValidator
	cartRepo   cart.Repository
	ordersRepo orders.Repository
	points     pointsAwarder
	tx         txRunner
	now        func() time.Time
}

// NewService builds the checkout service.
func NewService(cartSvc cartValidator, cartRepo cart.Repository, ordersRepo orders.Repository, points pointsAwarder, tx txRunner) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if points == nil {
		return nil, fmt.Errorf("points awarder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		cartSvc:    cartSvc,
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
		points:     points,
		tx:         tx,
		now:        time.Now,
	}, nil
}

// SubmitInput is the complete checkout payload. The flow walks it step by
// step so a malformed or skipped step fails exactly where a shopper would
// have been stopped.
type SubmitInput struct {
	ShippingAddress types.AddressSnapshot
	BillingAddress  *types.AddressSnapshot
	ShippingMethod  enums.ShippingMethod
	PaymentMethod   string
}

// Quote is the priced review of a checkout before submission.
type Quote struct {
	Step   enums.CheckoutStep `json:"step"`
	Totals Totals             `json:"totals"`
}

// SubmitResult reports the created order.
type SubmitResult struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Totals        Totals    `json:"totals"`
	PointsAwarded int       `json:"points_awarded"`
}

// walk drives a fresh flow through the submitted payload and prices it
// against the given subtotal.
func walk(input SubmitInput, subtotalCents int) (*Flow, error) {
	flow := NewFlow()
	if err := flow.SetShippingAddress(input.ShippingAddress); err != nil {
		return nil, err
	}
	if err := flow.SetShippingMethod(input.ShippingMethod); err != nil {
		return nil, err
	}
	if err := flow.SetPayment(input.PaymentMethod, input.BillingAddress); err != nil {
		return nil, err
	}
	if err := flow.PriceForReview(subtotalCents); err != nil {
		return nil, err
	}
	return flow, nil
}

// Quote validates the cart and payload and returns the priced breakdown
// without creating an order.
func (s *service) Quote(ctx context.Context, userID uuid.UUID, input SubmitInput) (*Quote, error) {
	validated, err := s.validatedCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	flow, err := walk(input, validated.Cart.TotalCents)
	if err != nil {
		return nil, err
	}
	return &Quote{Step: flow.Step(), Totals: *flow.Totals()}, nil
}

// Submit turns the active cart into an order atomically: stock is
// decremented, the order and its history row are written, the cart is
// marked converted, and loyalty points are awarded. Any failure rolls the
// whole submission back.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*SubmitResult, error) {
	validated, err := s.validatedCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot := validated.Cart

	flow, err := walk(input, snapshot.TotalCents)
	if err != nil {
		return nil, err
	}
	if err := flow.Submit(); err != nil {
		return nil, err
	}
	totals := flow.Totals()

	var result *SubmitResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		for _, line := range snapshot.Items {
			if err := ordersRepo.DecrementProductStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
		}

		order := &models.Order{
			OrderNumber:     s.newOrderNumber(),
			UserID:          userID,
			Status:          enums.OrderStatusPending,
			PaymentStatus:   enums.PaymentStatusPending,
			PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
			ShippingMethod:  input.ShippingMethod,
			SubtotalCents:   totals.SubtotalCents,
			TaxCents:        totals.TaxCents,
			ShippingCents:   totals.ShippingCents,
			TotalCents:      totals.TotalCents,
			ShippingAddress: input.ShippingAddress,
			BillingAddress:  input.BillingAddress,
		}
		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, len(snapshot.Items))
		for i, line := range snapshot.Items {
			items[i] = models.OrderItem{
				OrderID:        order.ID,
				ProductID:      line.ProductID,
				ProductTitle:   line.ProductTitle,
				ProductImages:  line.ProductImages,
				Quantity:       line.Quantity,
				UnitPriceCents: line.UnitPriceCents,
				SubtotalCents:  line.SubtotalCents,
				Attributes:     line.Attributes,
			}
		}
		if err := ordersRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := ordersRepo.CreateStatusEvent(ctx, &models.OrderStatusEvent{
			OrderID: order.ID,
			Status:  enums.OrderStatusPending,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order creation")
		}

		if err := cartRepo.UpdateStatus(ctx, snapshot.ID, enums.CartStatusConverted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "convert cart")
		}

		awarded, err := s.points.AwardOrderPoints(ctx, tx, userID, totals.TotalCents)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "award points")
		}

		result = &SubmitResult{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			Totals:        *totals,
			PointsAwarded: awarded,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) validatedCart(ctx context.Context, userID uuid.UUID) (*cart.ValidateResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	validated, err := s.cartSvc.Validate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if validated.Cart == nil || len(validated.Cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	if !validated.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart has unresolved issues").
			WithDetails(map[string]any{"issues": validated.Issues})
	}
	return validated, nil
}

// newOrderNumber mints a human-referenceable order number. Uniqueness is
// enforced by the database index; the uuid suffix makes collisions within a
// day vanishingly unlikely.
func (s *service) newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("SC-%s-%s", s.now().Format("20060102"), suffix)
}
