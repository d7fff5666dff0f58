package coupons

import (
	"time"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// CouponSummary is the slice of coupon data returned with a successful validation.
type CouponSummary struct {
	ID            uuid.UUID          `json:"id"`
	Code          string             `json:"code"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
}

// ValidationResult reports whether a code applies to an order and the discount it grants.
// Inapplicable coupons are reported here, not as errors, so checkout can render the
// message inline and proceed without the discount.
type ValidationResult struct {
	Valid    bool            `json:"valid"`
	Discount decimal.Decimal `json:"discount"`
	Message  string          `json:"message"`
	Coupon   *CouponSummary  `json:"coupon,omitempty"`
}

// ApplyResult extends validation with the per-user limit check.
type ApplyResult struct {
	Valid    bool            `json:"valid"`
	Discount decimal.Decimal `json:"discount"`
	Message  string          `json:"message"`
	CouponID *uuid.UUID      `json:"coupon_id,omitempty"`
}

// RecordUsageInput captures one finalized redemption.
type RecordUsageInput struct {
	CouponID uuid.UUID       `json:"coupon_id"`
	UserID   uuid.UUID       `json:"user_id"`
	OrderID  uuid.UUID       `json:"order_id"`
	Discount decimal.Decimal `json:"discount"`
}

// CreateCouponInput is the admin payload for a new coupon.
type CreateCouponInput struct {
	Code          string           `json:"code"`
	Description   *string          `json:"description"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue decimal.Decimal  `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	MaxUses       *int             `json:"max_uses"`
	PerUserLimit  *int             `json:"per_user_limit"`
	ValidFrom     *time.Time       `json:"valid_from"`
	ValidUntil    *time.Time       `json:"valid_until"`
	IsActive      *bool            `json:"is_active"`
}

// UpdateCouponInput carries partial updates; nil fields are left untouched.
type UpdateCouponInput struct {
	Description   *string          `json:"description"`
	DiscountType  *string          `json:"discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	MaxUses       *int             `json:"max_uses"`
	PerUserLimit  *int             `json:"per_user_limit"`
	ValidFrom     *time.Time       `json:"valid_from"`
	ValidUntil    *time.Time       `json:"valid_until"`
	IsActive      *bool            `json:"is_active"`
}
