package checkout

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/internal/cart"
	"github.com/shopcircle/backend/internal/orders"
	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCartValidator struct {
	result *cart.ValidateResult
	err    error
}

func (s *stubCartValidator) Validate(_ context.Context, _ uuid.UUID) (*cart.ValidateResult, error) {
	return s.result, s.err
}

// stubCartRepo only implements the methods checkout touches; the embedded
// interface panics on anything else.
type stubCartRepo struct {
	cart.Repository
	converted []uuid.UUID
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) UpdateStatus(_ context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	if status == enums.CartStatusConverted {
		s.converted = append(s.converted, cartID)
	}
	return nil
}

type stubOrdersRepo struct {
	orders.Repository
	created      *models.Order
	items        []models.OrderItem
	events       []models.OrderStatusEvent
	stockByID    map[uuid.UUID]int
	decrements   map[uuid.UUID]int
	failOnCreate error
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) DecrementProductStock(_ context.Context, productID uuid.UUID, qty int) error {
	if s.stockByID != nil {
		if have, ok := s.stockByID[productID]; ok && have < qty {
			return gorm.ErrRecordNotFound
		}
	}
	if s.decrements == nil {
		s.decrements = map[uuid.UUID]int{}
	}
	s.decrements[productID] += qty
	return nil
}

func (s *stubOrdersRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if s.failOnCreate != nil {
		return nil, s.failOnCreate
	}
	order.ID = uuid.New()
	s.created = order
	return order, nil
}

func (s *stubOrdersRepo) CreateItems(_ context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrdersRepo) CreateStatusEvent(_ context.Context, event *models.OrderStatusEvent) error {
	s.events = append(s.events, *event)
	return nil
}

type stubAwarder struct {
	awarded int
	calls   int
}

func (s *stubAwarder) AwardOrderPoints(_ context.Context, _ *gorm.DB, _ uuid.UUID, totalCents int) (int, error) {
	s.calls++
	s.awarded = totalCents / 100
	return s.awarded, nil
}

func validCartResult() *cart.ValidateResult {
	cartID := uuid.New()
	return &cart.ValidateResult{
		Valid: true,
		Cart: &cart.CartDTO{
			ID: cartID,
			Items: []cart.ItemDTO{
				{
					ID:             uuid.New(),
					ProductID:      uuid.New(),
					ProductTitle:   "Ceramic Mug",
					Quantity:       2,
					UnitPriceCents: 1000,
					SubtotalCents:  2000,
				},
			},
			ItemCount:  2,
			TotalCents: 2000,
		},
	}
}

func validInput() SubmitInput {
	return SubmitInput{
		ShippingAddress: completeAddress(),
		ShippingMethod:  enums.ShippingMethodStandard,
		PaymentMethod:   "card",
	}
}

func newCheckoutService(t *testing.T, validator cartValidator, cartRepo cart.Repository, ordersRepo orders.Repository, awarder pointsAwarder) Service {
	t.Helper()
	svc, err := NewService(validator, cartRepo, ordersRepo, awarder, stubTx{})
	if err != nil {
		t.Fatalf("new checkout service: %v", err)
	}
	return svc
}

func TestSubmitCreatesOrderAtomically(t *testing.T) {
	result := validCartResult()
	cartRepo := &stubCartRepo{}
	ordersRepo := &stubOrdersRepo{}
	awarder := &stubAwarder{}
	svc := newCheckoutService(t, &stubCartValidator{result: result}, cartRepo, ordersRepo, awarder)

	out, err := svc.Submit(context.Background(), uuid.New(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if out.Totals.TotalCents != 2759 {
		t.Fatalf("expected total 2759, got %d", out.Totals.TotalCents)
	}
	if !strings.HasPrefix(out.OrderNumber, "SC-") {
		t.Fatalf("unexpected order number %q", out.OrderNumber)
	}
	if ordersRepo.created == nil || ordersRepo.created.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending order, got %+v", ordersRepo.created)
	}
	if len(ordersRepo.items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(ordersRepo.items))
	}
	if len(ordersRepo.events) != 1 || ordersRepo.events[0].Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status event, got %+v", ordersRepo.events)
	}
	if len(cartRepo.converted) != 1 || cartRepo.converted[0] != result.Cart.ID {
		t.Fatalf("expected cart marked converted")
	}
	if awarder.calls != 1 {
		t.Fatalf("expected points awarded once, got %d", awarder.calls)
	}
	if out.PointsAwarded != 27 {
		t.Fatalf("expected 27 points for a $27.59 order, got %d", out.PointsAwarded)
	}
	line := result.Cart.Items[0]
	if ordersRepo.decrements[line.ProductID] != line.Quantity {
		t.Fatalf("expected stock decrement %d, got %d", line.Quantity, ordersRepo.decrements[line.ProductID])
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	empty := &cart.ValidateResult{Valid: true, Cart: &cart.CartDTO{Items: []cart.ItemDTO{}}}
	svc := newCheckoutService(t, &stubCartValidator{result: empty}, &stubCartRepo{}, &stubOrdersRepo{}, &stubAwarder{})

	_, err := svc.Submit(context.Background(), uuid.New(), validInput())
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitInvalidCart(t *testing.T) {
	result := validCartResult()
	result.Valid = false
	result.Issues = []cart.ValidationIssue{{Kind: cart.IssueOutOfStock, Message: "product is out of stock"}}
	svc := newCheckoutService(t, &stubCartValidator{result: result}, &stubCartRepo{}, &stubOrdersRepo{}, &stubAwarder{})

	_, err := svc.Submit(context.Background(), uuid.New(), validInput())
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitIncompleteAddress(t *testing.T) {
	svc := newCheckoutService(t, &stubCartValidator{result: validCartResult()}, &stubCartRepo{}, &stubOrdersRepo{}, &stubAwarder{})

	input := validInput()
	input.ShippingAddress.City = ""
	_, err := svc.Submit(context.Background(), uuid.New(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitStockRace(t *testing.T) {
	result := validCartResult()
	line := result.Cart.Items[0]
	ordersRepo := &stubOrdersRepo{stockByID: map[uuid.UUID]int{line.ProductID: 1}}
	svc := newCheckoutService(t, &stubCartValidator{result: result}, &stubCartRepo{}, ordersRepo, &stubAwarder{})

	_, err := svc.Submit(context.Background(), uuid.New(), validInput())
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict on stock race, got %v", err)
	}
}

func TestQuoteDoesNotCreateOrder(t *testing.T) {
	ordersRepo := &stubOrdersRepo{}
	svc := newCheckoutService(t, &stubCartValidator{result: validCartResult()}, &stubCartRepo{}, ordersRepo, &stubAwarder{})

	quote, err := svc.Quote(context.Background(), uuid.New(), validInput())
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.Totals.TotalCents != 2759 {
		t.Fatalf("expected total 2759, got %d", quote.Totals.TotalCents)
	}
	if quote.Step != enums.CheckoutStepReview {
		t.Fatalf("expected review step, got %s", quote.Step)
	}
	if ordersRepo.created != nil {
		t.Fatalf("quote must not create an order")
	}
}
