package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	"github.com/shopcircle/backend/pkg/types"
)

// CartDTO is the full cart snapshot returned by every mutation so clients
// never have to merge partial updates.
type CartDTO struct {
	ID         uuid.UUID        `json:"id"`
	Status     enums.CartStatus `json:"status"`
	Items      []ItemDTO        `json:"items"`
	ItemCount  int              `json:"item_count"`
	TotalCents int              `json:"total_cents"`
	ExpiresAt  time.Time        `json:"expires_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ItemDTO is the transport shape of a single cart line.
type ItemDTO struct {
	ID             uuid.UUID            `json:"id"`
	ProductID      uuid.UUID            `json:"product_id"`
	ProductTitle   string               `json:"product_title"`
	ProductImages  pq.StringArray       `json:"product_images"`
	Quantity       int                  `json:"quantity"`
	UnitPriceCents int                  `json:"unit_price_cents"`
	SubtotalCents  int                  `json:"subtotal_cents"`
	StockQuantity  int                  `json:"stock_quantity"`
	Attributes     types.ItemAttributes `json:"attributes,omitempty"`
}

// ValidationIssue describes one problem found while revalidating a cart
// against the live catalog.
type ValidationIssue struct {
	ItemID    uuid.UUID `json:"item_id"`
	ProductID uuid.UUID `json:"product_id"`
	Kind      IssueKind `json:"kind"`
	Message   string    `json:"message"`
}

// IssueKind classifies cart validation problems.
type IssueKind string

const (
	IssueUnavailable  IssueKind = "unavailable"
	IssuePriceChanged IssueKind = "price_changed"
	IssueOutOfStock   IssueKind = "out_of_stock"
	IssueLowStock     IssueKind = "low_stock"
)

// ValidateResult pairs the refreshed snapshot with the issues found.
type ValidateResult struct {
	Cart   *CartDTO          `json:"cart"`
	Issues []ValidationIssue `json:"issues"`
	Valid  bool              `json:"valid"`
}

func toItemDTO(m models.CartItem) ItemDTO {
	return ItemDTO{
		ID:             m.ID,
		ProductID:      m.ProductID,
		ProductTitle:   m.ProductTitle,
		ProductImages:  m.ProductImages,
		Quantity:       m.Quantity,
		UnitPriceCents: m.UnitPriceCents,
		SubtotalCents:  m.SubtotalCents,
		StockQuantity:  m.StockQuantity,
		Attributes:     m.Attributes,
	}
}

func toCartDTO(m *models.Cart) *CartDTO {
	if m == nil {
		return nil
	}

	items := make([]ItemDTO, len(m.Items))
	for i, it := range m.Items {
		items[i] = toItemDTO(it)
	}

	return &CartDTO{
		ID:         m.ID,
		Status:     m.Status,
		Items:      items,
		ItemCount:  m.ItemCount,
		TotalCents: m.TotalCents,
		ExpiresAt:  m.ExpiresAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
