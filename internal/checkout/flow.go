package checkout

import (
	"strings"

	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	"github.com/shopcircle/backend/pkg/types"
)

// Flow is the in-memory checkout state machine. It advances strictly
// forward through the step order and refuses to skip a step whose guard has
// not passed. Flows are not persisted: a client that abandons checkout
// starts over.
type Flow struct {
	step            enums.CheckoutStep
	shippingAddress types.AddressSnapshot
	billingAddress  *types.AddressSnapshot
	shippingMethod  enums.ShippingMethod
	paymentMethod   string
	totals          *Totals
}

// NewFlow starts a checkout at the shipping address step.
func NewFlow() *Flow {
	return &Flow{step: enums.CheckoutStepShippingAddress}
}

// Step exposes the current position in the flow.
func (f *Flow) Step() enums.CheckoutStep {
	return f.step
}

// Totals exposes the priced breakdown once review has been reached.
func (f *Flow) Totals() *Totals {
	return f.totals
}

func (f *Flow) require(step enums.CheckoutStep) error {
	if f.step != step {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout step out of order").
			WithDetails(map[string]any{"expected": step.String(), "current": f.step.String()})
	}
	return nil
}

func (f *Flow) advance() error {
	next, err := f.step.Next()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "advance checkout")
	}
	f.step = next
	return nil
}

// Back steps the flow one position toward the start. Entered data is kept.
func (f *Flow) Back() error {
	prev, err := f.step.Prev()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "step back")
	}
	f.step = prev
	return nil
}

// SetShippingAddress validates and stores the destination, then advances to
// method selection.
func (f *Flow) SetShippingAddress(addr types.AddressSnapshot) error {
	if err := f.require(enums.CheckoutStepShippingAddress); err != nil {
		return err
	}
	if missing := addr.RequiredFieldsMissing(); len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	f.shippingAddress = addr
	return f.advance()
}

// SetShippingMethod stores the delivery choice and advances to payment.
func (f *Flow) SetShippingMethod(method enums.ShippingMethod) error {
	if err := f.require(enums.CheckoutStepShippingMethod); err != nil {
		return err
	}
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}
	f.shippingMethod = method
	return f.advance()
}

// SetPayment records the payment selection. The billing address is optional
// and defaults to the shipping address; when given it must be complete.
func (f *Flow) SetPayment(method string, billing *types.AddressSnapshot) error {
	if err := f.require(enums.CheckoutStepPayment); err != nil {
		return err
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}
	if billing != nil {
		if missing := billing.RequiredFieldsMissing(); len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "billing address is incomplete").
				WithDetails(map[string]any{"missing": missing})
		}
	}
	f.paymentMethod = method
	f.billingAddress = billing
	return f.advance()
}

// PriceForReview computes the money breakdown for the review step.
func (f *Flow) PriceForReview(subtotalCents int) error {
	if err := f.require(enums.CheckoutStepReview); err != nil {
		return err
	}
	totals, err := ComputeTotals(subtotalCents, f.shippingMethod)
	if err != nil {
		return err
	}
	f.totals = totals
	return nil
}

// Submit seals the flow. Only a priced review can be submitted.
func (f *Flow) Submit() error {
	if err := f.require(enums.CheckoutStepReview); err != nil {
		return err
	}
	if f.totals == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout has not been priced")
	}
	return f.advance()
}
