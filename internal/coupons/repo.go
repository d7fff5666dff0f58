package coupons

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes persistence operations for coupons and their usage records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByCode loads a coupon by its uppercased code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByID loads a coupon by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Create inserts a new coupon.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update saves the provided coupon.
func (r *Repository) Update(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Save(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete removes a coupon together with its usage records.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("coupon_id = ?", id).Delete(&models.CouponUsage{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Coupon{}).Error
}

// List returns a page of coupons ordered by creation time, newest first,
// plus the cursor for the next page (empty when exhausted).
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Coupon, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Coupon
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// CountUsageByUser counts redemptions of a coupon by a single user.
func (r *Repository) CountUsageByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementUsage bumps used_count only while the global cap has room. The
// conditional update makes concurrent redemptions near the cap safe: losers
// see zero rows affected and must void the order.
func (r *Repository) IncrementUsage(ctx context.Context, couponID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// InsertUsage appends one redemption record.
func (r *Repository) InsertUsage(ctx context.Context, usage *models.CouponUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(usage).Error
}
