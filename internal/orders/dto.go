package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	pkgpagination "github.com/shopcircle/backend/pkg/pagination"
	"github.com/shopcircle/backend/pkg/types"
)

type ListParams struct {
	UserID uuid.UUID
	Status string
	pkgpagination.Params
}

type ListResult struct {
	Items  []Summary `json:"items"`
	Cursor string    `json:"cursor"`
}

// Summary is the list-row shape of an order.
type Summary struct {
	ID             uuid.UUID            `json:"id"`
	OrderNumber    string               `json:"order_number"`
	Status         enums.OrderStatus    `json:"status"`
	PaymentStatus  enums.PaymentStatus  `json:"payment_status"`
	ShippingMethod enums.ShippingMethod `json:"shipping_method"`
	TotalCents     int                  `json:"total_cents"`
	ItemCount      int                  `json:"item_count"`
	CreatedAt      time.Time            `json:"created_at"`
}

// Detail is the full order shape with lines and history.
type Detail struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	Status          enums.OrderStatus      `json:"status"`
	PaymentStatus   enums.PaymentStatus    `json:"payment_status"`
	PaymentMethod   string                 `json:"payment_method"`
	ShippingMethod  enums.ShippingMethod   `json:"shipping_method"`
	SubtotalCents   int                    `json:"subtotal_cents"`
	TaxCents        int                    `json:"tax_cents"`
	ShippingCents   int                    `json:"shipping_cents"`
	DiscountCents   int                    `json:"discount_cents"`
	TotalCents      int                    `json:"total_cents"`
	ShippingAddress types.AddressSnapshot  `json:"shipping_address"`
	BillingAddress  *types.AddressSnapshot `json:"billing_address,omitempty"`
	Items           []ItemDTO              `json:"items"`
	StatusHistory   []StatusEventDTO       `json:"status_history"`
	Cancelable      bool                   `json:"cancelable"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ItemDTO is the transport shape of one order line.
type ItemDTO struct {
	ID             uuid.UUID            `json:"id"`
	ProductID      uuid.UUID            `json:"product_id"`
	ProductTitle   string               `json:"product_title"`
	ProductImages  pq.StringArray       `json:"product_images"`
	Quantity       int                  `json:"quantity"`
	UnitPriceCents int                  `json:"unit_price_cents"`
	SubtotalCents  int                  `json:"subtotal_cents"`
	Attributes     types.ItemAttributes `json:"attributes,omitempty"`
}

// StatusEventDTO is one row of the append-only status history.
type StatusEventDTO struct {
	Status    enums.OrderStatus `json:"status"`
	Note      *string           `json:"note,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// TrackingStep is one stop on the fulfillment track.
type TrackingStep struct {
	Status    enums.OrderStatus `json:"status"`
	Reached   bool              `json:"reached"`
	ReachedAt *time.Time        `json:"reached_at,omitempty"`
}

// Tracking is the shopper-facing progress view of an order.
type Tracking struct {
	OrderNumber   string            `json:"order_number"`
	Status        enums.OrderStatus `json:"status"`
	OnTrack       bool              `json:"on_track"`
	ProgressIndex int               `json:"progress_index"`
	Steps         []TrackingStep    `json:"steps"`
}

// ReorderResult reports how much of a past order made it back into the cart.
type ReorderResult struct {
	AddedItems   int      `json:"added_items"`
	SkippedItems int      `json:"skipped_items"`
	Issues       []string `json:"issues,omitempty"`
}

func toItemDTO(m models.OrderItem) ItemDTO {
	return ItemDTO{
		ID:             m.ID,
		ProductID:      m.ProductID,
		ProductTitle:   m.ProductTitle,
		ProductImages:  m.ProductImages,
		Quantity:       m.Quantity,
		UnitPriceCents: m.UnitPriceCents,
		SubtotalCents:  m.SubtotalCents,
		Attributes:     m.Attributes,
	}
}

func toSummary(m models.Order) Summary {
	count := 0
	for _, it := range m.Items {
		count += it.Quantity
	}
	return Summary{
		ID:             m.ID,
		OrderNumber:    m.OrderNumber,
		Status:         m.Status,
		PaymentStatus:  m.PaymentStatus,
		ShippingMethod: m.ShippingMethod,
		TotalCents:     m.TotalCents,
		ItemCount:      count,
		CreatedAt:      m.CreatedAt,
	}
}

func toDetail(m *models.Order) *Detail {
	if m == nil {
		return nil
	}

	items := make([]ItemDTO, len(m.Items))
	for i, it := range m.Items {
		items[i] = toItemDTO(it)
	}

	history := make([]StatusEventDTO, len(m.StatusHistory))
	for i, ev := range m.StatusHistory {
		history[i] = StatusEventDTO{Status: ev.Status, Note: ev.Note, CreatedAt: ev.CreatedAt}
	}

	return &Detail{
		ID:              m.ID,
		OrderNumber:     m.OrderNumber,
		Status:          m.Status,
		PaymentStatus:   m.PaymentStatus,
		PaymentMethod:   m.PaymentMethod,
		ShippingMethod:  m.ShippingMethod,
		SubtotalCents:   m.SubtotalCents,
		TaxCents:        m.TaxCents,
		ShippingCents:   m.ShippingCents,
		DiscountCents:   m.DiscountCents,
		TotalCents:      m.TotalCents,
		ShippingAddress: m.ShippingAddress,
		BillingAddress:  m.BillingAddress,
		Items:           items,
		StatusHistory:   history,
		Cancelable:      m.Status.Cancelable(),
		CancelledAt:     m.CancelledAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toTracking(m *models.Order) *Tracking {
	idx := m.Status.ProgressIndex()

	// Map history timestamps onto track stops.
	reachedAt := map[enums.OrderStatus]time.Time{}
	for _, ev := range m.StatusHistory {
		if _, seen := reachedAt[ev.Status]; !seen {
			reachedAt[ev.Status] = ev.CreatedAt
		}
	}

	steps := make([]TrackingStep, len(enums.ProgressTrack))
	for i, status := range enums.ProgressTrack {
		step := TrackingStep{Status: status, Reached: idx >= 0 && i <= idx}
		if at, ok := reachedAt[status]; ok {
			t := at
			step.ReachedAt = &t
			step.Reached = true
		}
		steps[i] = step
	}

	return &Tracking{
		OrderNumber:   m.OrderNumber,
		Status:        m.Status,
		OnTrack:       idx >= 0,
		ProgressIndex: idx,
		Steps:         steps,
	}
}
