package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oakmart-labs/oakmart-backend/api/responses"
	"github.com/oakmart-labs/oakmart-backend/api/validators"
	pricingsvc "github.com/oakmart-labs/oakmart-backend/internal/pricing"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
)

type priceOrderRequest struct {
	Items       []priceOrderItem `json:"items" validate:"required,min=1,dive"`
	Destination string           `json:"destination" validate:"required"`
	CouponCode  string           `json:"coupon_code"`
	Region      string           `json:"region"`
	Weight      decimal.Decimal  `json:"weight"`
}

type priceOrderItem struct {
	ProductID *uuid.UUID      `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
}

// PricingQuote prices a full order: subtotal, coupon discount, shipping, tax,
// and total in one pass.
func PricingQuote(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload priceOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]pricingsvc.LineItem, len(payload.Items))
		for i, item := range payload.Items {
			items[i] = pricingsvc.LineItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.Price,
				Quantity:  item.Quantity,
			}
		}

		result, err := svc.PriceOrder(r.Context(), pricingsvc.PriceOrderInput{
			Items:       items,
			Destination: payload.Destination,
			CouponCode:  payload.CouponCode,
			Region:      payload.Region,
			Weight:      payload.Weight,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
