package coupons

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/enums"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCouponsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	coupons := `
CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  description TEXT,
  discount_type TEXT NOT NULL,
  discount_value TEXT NOT NULL,
  min_order_value TEXT NOT NULL DEFAULT '0',
  max_discount TEXT,
  max_uses INTEGER,
  per_user_limit INTEGER NOT NULL DEFAULT 1,
  valid_from DATETIME NOT NULL,
  valid_until DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  used_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	usages := `
CREATE TABLE IF NOT EXISTS coupon_usages (
  id TEXT PRIMARY KEY,
  coupon_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  discount TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(coupons).Error)
	require.NoError(t, db.Exec(usages).Error)
	return db
}

func seedCoupon(t *testing.T, db *gorm.DB, code string, maxUses *int) *models.Coupon {
	t.Helper()

	coupon := &models.Coupon{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: dec("10"),
		MinOrderValue: dec("0"),
		MaxUses:       maxUses,
		PerUserLimit:  1,
		ValidFrom:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func TestRepositoryFindByCodeUppercases(t *testing.T) {
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)

	seeded := seedCoupon(t, db, "FINDME", nil)

	found, err := repo.FindByCode(context.Background(), "  findme ")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	_, err = repo.FindByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryIncrementUsageRespectsCap(t *testing.T) {
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)

	coupon := seedCoupon(t, db, "CAPPED", intPtr(2))

	for i := 0; i < 2; i++ {
		ok, err := repo.IncrementUsage(context.Background(), coupon.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := repo.IncrementUsage(context.Background(), coupon.ID)
	require.NoError(t, err)
	assert.False(t, ok, "third increment must be rejected at cap 2")

	reloaded, err := repo.FindByID(context.Background(), coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.UsedCount)
}

func TestRepositoryIncrementUsageUncapped(t *testing.T) {
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)

	coupon := seedCoupon(t, db, "UNCAPPED", nil)

	for i := 0; i < 3; i++ {
		ok, err := repo.IncrementUsage(context.Background(), coupon.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRepositoryDeleteCascadesUsages(t *testing.T) {
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)

	coupon := seedCoupon(t, db, "DOOMED", nil)
	userID := uuid.New()
	require.NoError(t, repo.InsertUsage(context.Background(), &models.CouponUsage{
		CouponID: coupon.ID,
		UserID:   userID,
		OrderID:  uuid.New(),
		Discount: dec("10"),
	}))

	require.NoError(t, repo.Delete(context.Background(), coupon.ID))

	_, err := repo.FindByID(context.Background(), coupon.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.CountUsageByUser(context.Background(), coupon.ID, userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositoryCountUsageByUser(t *testing.T) {
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)

	coupon := seedCoupon(t, db, "COUNTED", nil)
	userA := uuid.New()
	userB := uuid.New()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.InsertUsage(context.Background(), &models.CouponUsage{
			CouponID: coupon.ID,
			UserID:   userA,
			OrderID:  uuid.New(),
			Discount: dec("10"),
		}))
	}

	count, err := repo.CountUsageByUser(context.Background(), coupon.ID, userA)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountUsageByUser(context.Background(), coupon.ID, userB)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositoryListPagination(t *testing.T) {
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)

	base := time.Now().UTC().Add(-time.Hour)
	codes := []string{"PAGE1", "PAGE2", "PAGE3"}
	for i, code := range codes {
		coupon := seedCoupon(t, db, code, nil)
		require.NoError(t, db.Model(&models.Coupon{}).
			Where("id = ?", coupon.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	first, next, err := repo.List(context.Background(), pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.NotEmpty(t, next)
	assert.Equal(t, "PAGE3", first[0].Code)

	second, last, err := repo.List(context.Background(), pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "PAGE1", second[0].Code)
	assert.Empty(t, last)
}
