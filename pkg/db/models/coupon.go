package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Coupon stores a discount code and its eligibility rules. Codes are kept
// uppercase so lookups stay case-insensitive.
type Coupon struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Code          string             `gorm:"column:code;uniqueIndex:idx_coupons_code;not null"`
	Description   *string            `gorm:"column:description"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinOrderValue decimal.Decimal    `gorm:"column:min_order_value;type:numeric(12,2);not null;default:0"`
	MaxDiscount   *decimal.Decimal   `gorm:"column:max_discount;type:numeric(12,2)"`
	MaxUses       *int               `gorm:"column:max_uses"`
	PerUserLimit  int                `gorm:"column:per_user_limit;not null;default:1"`
	ValidFrom     time.Time          `gorm:"column:valid_from;not null"`
	ValidUntil    *time.Time         `gorm:"column:valid_until"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	UsedCount     int                `gorm:"column:used_count;not null;default:0"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	Usages []CouponUsage `gorm:"foreignKey:CouponID"`
}
