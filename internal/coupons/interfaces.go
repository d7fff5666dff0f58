package coupons

import (
	"context"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"gorm.io/gorm"
)

// CouponRepository defines the persistence surface required by the coupon service.
type CouponRepository interface {
	WithTx(tx *gorm.DB) CouponRepository
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Update(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]models.Coupon, string, error)
	CountUsageByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	IncrementUsage(ctx context.Context, couponID uuid.UUID) (bool, error)
	InsertUsage(ctx context.Context, usage *models.CouponUsage) error
}
