package checkout

import (
	"testing"

	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	"github.com/shopcircle/backend/pkg/types"
)

func completeAddress() types.AddressSnapshot {
	return types.AddressSnapshot{
		Name:       "Sam Shopper",
		Phone:      "555-0100",
		Line1:      "1 Main St",
		City:       "Tulsa",
		State:      "OK",
		PostalCode: "74104",
		Country:    "US",
	}
}

func TestFlowHappyPath(t *testing.T) {
	flow := NewFlow()

	if err := flow.SetShippingAddress(completeAddress()); err != nil {
		t.Fatalf("set address: %v", err)
	}
	if flow.Step() != enums.CheckoutStepShippingMethod {
		t.Fatalf("expected shipping_method step, got %s", flow.Step())
	}
	if err := flow.SetShippingMethod(enums.ShippingMethodStandard); err != nil {
		t.Fatalf("set method: %v", err)
	}
	if err := flow.SetPayment("card", nil); err != nil {
		t.Fatalf("set payment: %v", err)
	}
	if flow.Step() != enums.CheckoutStepReview {
		t.Fatalf("expected review step, got %s", flow.Step())
	}
	if err := flow.PriceForReview(2000); err != nil {
		t.Fatalf("price: %v", err)
	}
	if err := flow.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if flow.Step() != enums.CheckoutStepSubmitted {
		t.Fatalf("expected submitted, got %s", flow.Step())
	}
}

func TestFlowRejectsSkippedStep(t *testing.T) {
	flow := NewFlow()

	err := flow.SetShippingMethod(enums.ShippingMethodStandard)
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestFlowIncompleteAddress(t *testing.T) {
	flow := NewFlow()

	addr := completeAddress()
	addr.PostalCode = " "
	err := flow.SetShippingAddress(addr)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if flow.Step() != enums.CheckoutStepShippingAddress {
		t.Fatalf("flow must not advance on guard failure")
	}
}

func TestFlowBackKeepsData(t *testing.T) {
	flow := NewFlow()
	if err := flow.SetShippingAddress(completeAddress()); err != nil {
		t.Fatalf("set address: %v", err)
	}
	if err := flow.SetShippingMethod(enums.ShippingMethodExpress); err != nil {
		t.Fatalf("set method: %v", err)
	}

	if err := flow.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if flow.Step() != enums.CheckoutStepShippingMethod {
		t.Fatalf("expected shipping_method after back, got %s", flow.Step())
	}

	// Re-entering the step with a different choice still works.
	if err := flow.SetShippingMethod(enums.ShippingMethodStandard); err != nil {
		t.Fatalf("re-set method: %v", err)
	}
	if flow.Step() != enums.CheckoutStepPayment {
		t.Fatalf("expected payment, got %s", flow.Step())
	}
}

func TestFlowBackFromFirstStepRejected(t *testing.T) {
	flow := NewFlow()
	err := flow.Back()
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestFlowSubmitWithoutPricing(t *testing.T) {
	flow := NewFlow()
	if err := flow.SetShippingAddress(completeAddress()); err != nil {
		t.Fatalf("set address: %v", err)
	}
	if err := flow.SetShippingMethod(enums.ShippingMethodStandard); err != nil {
		t.Fatalf("set method: %v", err)
	}
	if err := flow.SetPayment("card", nil); err != nil {
		t.Fatalf("set payment: %v", err)
	}

	err := flow.Submit()
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestFlowIncompleteBillingAddress(t *testing.T) {
	flow := NewFlow()
	if err := flow.SetShippingAddress(completeAddress()); err != nil {
		t.Fatalf("set address: %v", err)
	}
	if err := flow.SetShippingMethod(enums.ShippingMethodStandard); err != nil {
		t.Fatalf("set method: %v", err)
	}

	billing := completeAddress()
	billing.Line1 = ""
	err := flow.SetPayment("card", &billing)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
