package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponUsage records one successful redemption of a coupon against an order.
// Rows are insert-only; per-user limits are enforced by counting them.
type CouponUsage struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CouponID  uuid.UUID       `gorm:"column:coupon_id;type:uuid;not null;index:idx_coupon_usages_coupon_user"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:idx_coupon_usages_coupon_user"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	Discount  decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
