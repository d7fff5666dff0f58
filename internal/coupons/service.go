package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/pkg/db"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/enums"
	pkgerrors "github.com/oakmart-labs/oakmart-backend/pkg/errors"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service evaluates coupon codes against orders and manages coupon configuration.
type Service interface {
	Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (*ValidationResult, error)
	Apply(ctx context.Context, code string, orderTotal decimal.Decimal, userID uuid.UUID) (*ApplyResult, error)
	RecordUsage(ctx context.Context, input RecordUsageInput) error

	Create(ctx context.Context, input CreateCouponInput) (*models.Coupon, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	List(ctx context.Context, params pagination.Params) ([]models.Coupon, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo CouponRepository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds a coupon service backed by the provided stack.
func NewService(repo CouponRepository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo: repo,
		tx:   tx,
		logg: logg,
		now:  time.Now,
	}, nil
}

func invalid(message string) *ValidationResult {
	return &ValidationResult{Valid: false, Discount: decimal.Zero, Message: message}
}

// Validate checks a code against an order subtotal and computes the discount it
// would grant. Inapplicable codes come back as Valid=false with a message; only
// infrastructure failures surface as errors. Validate never touches used_count.
func (s *service) Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (*ValidationResult, error) {
	result, _, err := s.evaluate(ctx, code, orderTotal)
	return result, err
}

// evaluate runs the validation rules in order, short-circuiting at the first
// failure, and returns the loaded coupon alongside the result for callers
// needing more than the summary.
func (s *service) evaluate(ctx context.Context, code string, orderTotal decimal.Decimal) (*ValidationResult, *models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if orderTotal.IsNegative() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be non-negative")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("Coupon not found"), nil, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if !coupon.IsActive {
		return invalid("Coupon is inactive"), coupon, nil
	}

	now := s.now()
	if now.Before(coupon.ValidFrom) {
		return invalid("Coupon is not yet valid"), coupon, nil
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return invalid("Coupon has expired"), coupon, nil
	}
	if coupon.MaxUses != nil && coupon.UsedCount >= *coupon.MaxUses {
		return invalid("Coupon usage limit reached"), coupon, nil
	}
	if orderTotal.LessThan(coupon.MinOrderValue) {
		return invalid(fmt.Sprintf("Minimum order value is %s", coupon.MinOrderValue.String())), coupon, nil
	}

	discount := computeDiscount(coupon, orderTotal)

	return &ValidationResult{
		Valid:    true,
		Discount: discount,
		Message:  "Coupon applied successfully",
		Coupon: &CouponSummary{
			ID:            coupon.ID,
			Code:          coupon.Code,
			DiscountType:  coupon.DiscountType,
			DiscountValue: coupon.DiscountValue,
		},
	}, coupon, nil
}

// computeDiscount applies the coupon's formula and clamps. Percentage discounts
// cap at max_discount first, then every discount caps at the order total so a
// coupon can never push the total negative.
func computeDiscount(coupon *models.Coupon, orderTotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		discount = orderTotal.Mul(coupon.DiscountValue).Div(oneHundred)
		if coupon.MaxDiscount != nil && discount.GreaterThan(*coupon.MaxDiscount) {
			discount = *coupon.MaxDiscount
		}
	case enums.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		discount = decimal.Zero
	}

	if discount.GreaterThan(orderTotal) {
		discount = orderTotal
	}
	return discount.Round(2)
}

// Apply runs Validate plus the per-user limit check. It is read-only; the
// order-finalization flow records the redemption via RecordUsage.
func (s *service) Apply(ctx context.Context, code string, orderTotal decimal.Decimal, userID uuid.UUID) (*ApplyResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	validation, coupon, err := s.evaluate(ctx, code, orderTotal)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return &ApplyResult{Valid: false, Discount: decimal.Zero, Message: validation.Message}, nil
	}

	count, err := s.repo.CountUsageByUser(ctx, coupon.ID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon usage")
	}
	if count >= int64(coupon.PerUserLimit) {
		return &ApplyResult{
			Valid:    false,
			Discount: decimal.Zero,
			Message:  "You have already used this coupon maximum times",
		}, nil
	}

	couponID := coupon.ID
	return &ApplyResult{
		Valid:    true,
		Discount: validation.Discount,
		Message:  validation.Message,
		CouponID: &couponID,
	}, nil
}

// RecordUsage finalizes a redemption: the conditional used_count increment and
// the usage row commit together or not at all. A full cap surfaces as a
// conflict so the caller can void the order.
func (s *service) RecordUsage(ctx context.Context, input RecordUsageInput) error {
	if input.CouponID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id is required")
	}
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.Discount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be non-negative")
	}

	ctx = s.logg.WithField(ctx, "coupon_id", input.CouponID.String())

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, input.CouponID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
		}

		ok, err := repo.IncrementUsage(ctx, input.CouponID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment coupon usage")
		}
		if !ok {
			s.logg.Warn(ctx, "coupon redemption rejected, usage cap reached")
			return pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
		}

		usage := &models.CouponUsage{
			CouponID: input.CouponID,
			UserID:   input.UserID,
			OrderID:  input.OrderID,
			Discount: input.Discount.Round(2),
		}
		if err := repo.InsertUsage(ctx, usage); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert coupon usage")
		}

		s.logg.Info(ctx, "coupon redemption recorded")
		return nil
	})
}

// Create validates and stores a new coupon.
func (s *service) Create(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	discountType, err := enums.ParseDiscountType(input.DiscountType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	coupon := &models.Coupon{
		Code:          code,
		Description:   input.Description,
		DiscountType:  discountType,
		DiscountValue: input.DiscountValue,
		MinOrderValue: input.MinOrderValue,
		MaxDiscount:   input.MaxDiscount,
		MaxUses:       input.MaxUses,
		PerUserLimit:  1,
		ValidFrom:     s.now(),
		IsActive:      true,
		ValidUntil:    input.ValidUntil,
	}
	if input.PerUserLimit != nil {
		coupon.PerUserLimit = *input.PerUserLimit
	}
	if input.ValidFrom != nil {
		coupon.ValidFrom = *input.ValidFrom
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := validateCouponFields(coupon); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}

	ctx = s.logg.WithCouponCode(ctx, created.Code)
	s.logg.Info(ctx, "coupon created")
	return created, nil
}

// Get loads a coupon by id.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return coupon, nil
}

// List returns a page of coupons.
func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Coupon, string, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return rows, next, nil
}

// Update applies a partial update to a coupon. The code itself is immutable.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*models.Coupon, error) {
	coupon, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		coupon.Description = input.Description
	}
	if input.DiscountType != nil {
		discountType, err := enums.ParseDiscountType(*input.DiscountType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		coupon.DiscountType = discountType
	}
	if input.DiscountValue != nil {
		coupon.DiscountValue = *input.DiscountValue
	}
	if input.MinOrderValue != nil {
		coupon.MinOrderValue = *input.MinOrderValue
	}
	if input.MaxDiscount != nil {
		coupon.MaxDiscount = input.MaxDiscount
	}
	if input.MaxUses != nil {
		coupon.MaxUses = input.MaxUses
	}
	if input.PerUserLimit != nil {
		coupon.PerUserLimit = *input.PerUserLimit
	}
	if input.ValidFrom != nil {
		coupon.ValidFrom = *input.ValidFrom
	}
	if input.ValidUntil != nil {
		coupon.ValidUntil = input.ValidUntil
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := validateCouponFields(coupon); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}
	return updated, nil
}

// Delete removes a coupon and its usage records in one transaction.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
		}
		return nil
	})
}

// validateCouponFields enforces the bounds a stored coupon must satisfy, so
// the evaluator can trust persisted data without defensive branching.
func validateCouponFields(coupon *models.Coupon) error {
	if coupon.DiscountValue.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must be non-negative")
	}
	if coupon.DiscountType == enums.DiscountTypePercentage && coupon.DiscountValue.GreaterThan(oneHundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount must be between 0 and 100")
	}
	if coupon.MinOrderValue.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum order value must be non-negative")
	}
	if coupon.MaxDiscount != nil && !coupon.MaxDiscount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "max discount must be positive")
	}
	if coupon.MaxUses != nil && *coupon.MaxUses < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max uses must be at least 1")
	}
	if coupon.PerUserLimit < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "per user limit must be at least 1")
	}
	if coupon.ValidUntil != nil && coupon.ValidUntil.Before(coupon.ValidFrom) {
		return pkgerrors.New(pkgerrors.CodeValidation, "valid_until must be after valid_from")
	}
	return nil
}
