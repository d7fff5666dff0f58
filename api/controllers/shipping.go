package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/oakmart-labs/oakmart-backend/api/responses"
	"github.com/oakmart-labs/oakmart-backend/api/validators"
	shippingsvc "github.com/oakmart-labs/oakmart-backend/internal/shipping"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
)

// ShippingServiceability answers whether any active zone covers a pincode.
func ShippingServiceability(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pincode := chi.URLParam(r, "pincode")

		result, err := svc.CheckServiceability(r.Context(), pincode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type shippingQuoteRequest struct {
	Destination string          `json:"destination" validate:"required"`
	OrderTotal  decimal.Decimal `json:"order_total"`
	Weight      decimal.Decimal `json:"weight"`
}

// ShippingQuote computes the cost of shipping an order to a destination.
func ShippingQuote(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload shippingQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.CalculateShipping(r.Context(), payload.Destination, payload.OrderTotal, payload.Weight)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
