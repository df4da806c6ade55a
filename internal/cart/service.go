package cart

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcircle/backend/pkg/config"
	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	"github.com/shopcircle/backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// Service exposes cart mutations and reads. Every mutation returns the full
// refreshed snapshot.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Validate(ctx context.Context, userID uuid.UUID) (*ValidateResult, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
	cfg      config.CartConfig
	now      func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader, cfg config.CartConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// AddItemInput captures the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID  uuid.UUID
	Quantity   int
	Attributes types.ItemAttributes
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	prod, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !prod.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	var snapshot *CartDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.loadOrCreate(ctx, repo, userID)
		if err != nil {
			return err
		}

		// Same product with identical attributes merges into one line.
		var existing *models.CartItem
		for i := range cart.Items {
			it := &cart.Items[i]
			if it.ProductID == input.ProductID && maps.Equal(it.Attributes, input.Attributes) {
				existing = it
				break
			}
		}

		if existing != nil {
			wanted := existing.Quantity + input.Quantity
			if wanted > prod.StockQuantity {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
					WithDetails(map[string]any{"available": prod.StockQuantity})
			}
			existing.Quantity = wanted
			existing.UnitPriceCents = prod.PriceCents
			existing.SubtotalCents = wanted * prod.PriceCents
			existing.StockQuantity = prod.StockQuantity
			if err := repo.UpdateItem(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		} else {
			if input.Quantity > prod.StockQuantity {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
					WithDetails(map[string]any{"available": prod.StockQuantity})
			}
			item := &models.CartItem{
				CartID:         cart.ID,
				ProductID:      prod.ID,
				Quantity:       input.Quantity,
				UnitPriceCents: prod.PriceCents,
				SubtotalCents:  input.Quantity * prod.PriceCents,
				ProductTitle:   prod.Title,
				ProductImages:  prod.Images,
				StockQuantity:  prod.StockQuantity,
				Attributes:     input.Attributes,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
		}

		snapshot, err = s.finalize(ctx, repo, cart.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var snapshot *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, item, err := s.findItem(ctx, repo, userID, itemID)
		if err != nil {
			return err
		}

		prod, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if prod == nil || !prod.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "product no longer available")
		}
		if quantity > prod.StockQuantity {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
				WithDetails(map[string]any{"available": prod.StockQuantity})
		}

		item.Quantity = quantity
		item.UnitPriceCents = prod.PriceCents
		item.SubtotalCents = quantity * prod.PriceCents
		item.StockQuantity = prod.StockQuantity
		if err := repo.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}

		snapshot, err = s.finalize(ctx, repo, cart.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	var snapshot *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, item, err := s.findItem(ctx, repo, userID, itemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}

		snapshot, err = s.finalize(ctx, repo, cart.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	var snapshot *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				snapshot = emptySnapshot()
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if err := repo.DeleteItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart items")
		}

		snapshot, err = s.finalize(ctx, repo, cart.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptySnapshot(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return toCartDTO(cart), nil
}

// Validate checks every line against the live catalog and reports lines that
// can no longer be purchased as stored. The check is read-only: stored
// snapshots, totals, and the expiry window stay untouched, so repeated calls
// keep reporting the same issues until a mutation refreshes the line.
func (s *service) Validate(ctx context.Context, userID uuid.UUID) (*ValidateResult, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidateResult{Cart: emptySnapshot(), Issues: []ValidationIssue{}, Valid: true}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	issues := []ValidationIssue{}
	for i := range cart.Items {
		item := &cart.Items[i]
		prod, ok := catalog[item.ProductID]

		if !ok || !prod.IsActive {
			issues = append(issues, ValidationIssue{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Kind:      IssueUnavailable,
				Message:   "product is no longer available",
			})
			continue
		}

		if prod.PriceCents != item.UnitPriceCents {
			issues = append(issues, ValidationIssue{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Kind:      IssuePriceChanged,
				Message:   fmt.Sprintf("price changed from %d to %d cents", item.UnitPriceCents, prod.PriceCents),
			})
		}

		switch {
		case prod.StockQuantity == 0:
			issues = append(issues, ValidationIssue{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Kind:      IssueOutOfStock,
				Message:   "product is out of stock",
			})
		case prod.StockQuantity < item.Quantity:
			issues = append(issues, ValidationIssue{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Kind:      IssueLowStock,
				Message:   fmt.Sprintf("only %d left in stock", prod.StockQuantity),
			})
		}
	}

	return &ValidateResult{Cart: toCartDTO(cart), Issues: issues, Valid: len(issues) == 0}, nil
}

// loadOrCreate returns the user's active cart, creating one with a fresh
// expiry when none exists.
func (s *service) loadOrCreate(ctx context.Context, repo Repository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := repo.Create(ctx, &models.Cart{
		UserID:    userID,
		Status:    enums.CartStatusActive,
		ExpiresAt: s.now().Add(s.cfg.TTL),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

func (s *service) findItem(ctx context.Context, repo Repository, userID, itemID uuid.UUID) (*models.Cart, *models.CartItem, error) {
	cart, err := repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return cart, &cart.Items[i], nil
		}
	}
	return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

// finalize recomputes denormalized totals, slides the expiry window, and
// reloads the snapshot.
func (s *service) finalize(ctx context.Context, repo Repository, cartID, userID uuid.UUID) (*CartDTO, error) {
	cart, err := repo.FindByIDForUser(ctx, cartID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}

	total, count := 0, 0
	for _, it := range cart.Items {
		total += it.SubtotalCents
		count += it.Quantity
	}
	if err := repo.UpdateTotals(ctx, cart.ID, total, count); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart totals")
	}

	expiresAt := s.now().Add(s.cfg.TTL)
	if err := repo.Touch(ctx, cart.ID, expiresAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh cart expiry")
	}

	cart.TotalCents = total
	cart.ItemCount = count
	cart.ExpiresAt = expiresAt
	return toCartDTO(cart), nil
}

func emptySnapshot() *CartDTO {
	return &CartDTO{
		Status:    enums.CartStatusActive,
		Items:     []ItemDTO{},
		ItemCount: 0,
	}
}
