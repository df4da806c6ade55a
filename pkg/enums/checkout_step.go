package enums

import "fmt"

// CheckoutStep names the states of the linear checkout flow. Submitted is
// terminal and reachable only from Review.
type CheckoutStep string

const (
	CheckoutStepShippingAddress CheckoutStep = "shipping_address"
	CheckoutStepShippingMethod  CheckoutStep = "shipping_method"
	CheckoutStepPayment         CheckoutStep = "payment"
	CheckoutStepReview          CheckoutStep = "review"
	CheckoutStepSubmitted       CheckoutStep = "submitted"
)

// checkoutOrder is the forward walk of the flow.
var checkoutOrder = []CheckoutStep{
	CheckoutStepShippingAddress,
	CheckoutStepShippingMethod,
	CheckoutStepPayment,
	CheckoutStepReview,
	CheckoutStepSubmitted,
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	for _, candidate := range checkoutOrder {
		if candidate == c {
			return true
		}
	}
	return false
}

// Next returns the following step, or an error at the terminal state.
func (c CheckoutStep) Next() (CheckoutStep, error) {
	for i, candidate := range checkoutOrder {
		if candidate == c {
			if i == len(checkoutOrder)-1 {
				return "", fmt.Errorf("checkout step %q is terminal", c)
			}
			return checkoutOrder[i+1], nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", c)
}

// Prev returns the preceding step. Submitted cannot be left once reached.
func (c CheckoutStep) Prev() (CheckoutStep, error) {
	if c == CheckoutStepSubmitted {
		return "", fmt.Errorf("checkout step %q is terminal", c)
	}
	for i, candidate := range checkoutOrder {
		if candidate == c {
			if i == 0 {
				return "", fmt.Errorf("checkout step %q is the first step", c)
			}
			return checkoutOrder[i-1], nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", c)
}
