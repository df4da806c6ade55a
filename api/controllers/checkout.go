package controllers

import (
	"net/http"

	"github.com/shopcircle/backend/api/responses"
	"github.com/shopcircle/backend/api/validators"
	"github.com/shopcircle/backend/internal/checkout"
	"github.com/shopcircle/backend/pkg/enums"
	pkgerrors "github.com/shopcircle/backend/pkg/errors"
	"github.com/shopcircle/backend/pkg/logger"
	"github.com/shopcircle/backend/pkg/types"
)

type checkoutRequest struct {
	ShippingAddress types.AddressSnapshot  `json:"shipping_address" validate:"required"`
	BillingAddress  *types.AddressSnapshot `json:"billing_address,omitempty"`
	ShippingMethod  string                 `json:"shipping_method" validate:"required,oneof=standard express overnight"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
}

func (req checkoutRequest) toInput() checkout.SubmitInput {
	return checkout.SubmitInput{
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		ShippingMethod:  enums.ShippingMethod(req.ShippingMethod),
		PaymentMethod:   req.PaymentMethod,
	}
}

// CheckoutQuote prices the current cart against the submitted shipping
// choices without creating an order.
func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), userID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CheckoutSubmit walks the full checkout flow and places the order.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), userID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
