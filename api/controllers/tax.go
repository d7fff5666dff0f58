package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/oakmart-labs/oakmart-backend/api/responses"
	"github.com/oakmart-labs/oakmart-backend/api/validators"
	taxsvc "github.com/oakmart-labs/oakmart-backend/internal/tax"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
)

type taxQuoteRequest struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Region   string          `json:"region"`
}

// TaxQuote computes the tax owed on a subtotal for an optional region.
func TaxQuote(svc taxsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload taxQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CalculateTax(r.Context(), payload.Subtotal, payload.Region)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
