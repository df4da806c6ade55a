package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shopcircle/backend/pkg/db/models"
	pkgpagination "github.com/shopcircle/backend/pkg/pagination"
)

type ListParams struct {
	Search string
	pkgpagination.Params
}

type ListResult struct {
	Items  []ListItem `json:"items"`
	Cursor string     `json:"cursor"`
}

type ListItem struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Description   *string        `json:"description,omitempty"`
	PriceCents    int            `json:"price_cents"`
	StockQuantity int            `json:"stock_quantity"`
	Images        pq.StringArray `json:"images"`
	CreatedAt     time.Time      `json:"created_at"`
}

type listQuery struct {
	search string
	limit  int
	cursor *pkgpagination.Cursor
}

func toListItem(m models.Product) ListItem {
	return ListItem{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		PriceCents:    m.PriceCents,
		StockQuantity: m.StockQuantity,
		Images:        m.Images,
		CreatedAt:     m.CreatedAt,
	}
}
