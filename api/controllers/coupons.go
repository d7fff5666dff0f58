package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oakmart-labs/oakmart-backend/api/responses"
	"github.com/oakmart-labs/oakmart-backend/api/validators"
	couponsvc "github.com/oakmart-labs/oakmart-backend/internal/coupons"
	pkgerrors "github.com/oakmart-labs/oakmart-backend/pkg/errors"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
)

type validateCouponRequest struct {
	Code       string          `json:"code" validate:"required"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

// CouponValidate checks a code against an order subtotal without touching
// usage counters.
func CouponValidate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload validateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithCouponCode(r.Context(), payload.Code)
		result, err := svc.Validate(ctx, payload.Code, payload.OrderTotal)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type applyCouponRequest struct {
	Code       string          `json:"code" validate:"required"`
	OrderTotal decimal.Decimal `json:"order_total"`
	UserID     uuid.UUID       `json:"user_id" validate:"required"`
}

// CouponApply adds the per-user limit check on top of validation.
func CouponApply(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithCouponCode(r.Context(), payload.Code)
		ctx = logg.WithUserID(ctx, payload.UserID.String())
		result, err := svc.Apply(ctx, payload.Code, payload.OrderTotal, payload.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type recordUsageRequest struct {
	CouponID uuid.UUID       `json:"coupon_id" validate:"required"`
	UserID   uuid.UUID       `json:"user_id" validate:"required"`
	OrderID  uuid.UUID       `json:"order_id" validate:"required"`
	Discount decimal.Decimal `json:"discount"`
}

// CouponRecordUsage finalizes a redemption. The route is covered by the
// idempotency middleware so order-flow retries replay the first response.
func CouponRecordUsage(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload recordUsageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := couponsvc.RecordUsageInput{
			CouponID: payload.CouponID,
			UserID:   payload.UserID,
			OrderID:  payload.OrderID,
			Discount: payload.Discount,
		}
		if err := svc.RecordUsage(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "recorded"})
	}
}
