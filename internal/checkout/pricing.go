package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
)

// taxRate is the flat sales tax applied to the item subtotal only; shipping
// is never taxed.
var taxRate = decimal.NewFromFloat(0.08)

var shippingRateCents = map[enums.ShippingMethod]int{
	enums.ShippingMethodStandard:  599,
	enums.ShippingMethodExpress:   1299,
	enums.ShippingMethodOvernight: 2499,
}

// Totals is the cent-exact money breakdown for an order.
type Totals struct {
	SubtotalCents int `json:"subtotal_cents"`
	ShippingCents int `json:"shipping_cents"`
	TaxCents      int `json:"tax_cents"`
	TotalCents    int `json:"total_cents"`
}

// ShippingCostCents returns the flat rate for the chosen method.
func ShippingCostCents(method enums.ShippingMethod) (int, error) {
	cents, ok := shippingRateCents[method]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}
	return cents, nil
}

// ComputeTotals prices an order: tax is 8% of the item subtotal rounded
// half-up to the cent, and the grand total is subtotal + shipping + tax.
func ComputeTotals(subtotalCents int, method enums.ShippingMethod) (*Totals, error) {
	if subtotalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal cannot be negative")
	}

	shipping, err := ShippingCostCents(method)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.NewFromInt(int64(subtotalCents))
	tax := subtotal.Mul(taxRate).Round(0)
	taxCents := int(tax.IntPart())

	return &Totals{
		SubtotalCents: subtotalCents,
		ShippingCents: shipping,
		TaxCents:      taxCents,
		TotalCents:    subtotalCents + shipping + taxCents,
	}, nil
}
