package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oakmart-labs/oakmart-backend/internal/coupons"
	"github.com/oakmart-labs/oakmart-backend/internal/shipping"
	"github.com/oakmart-labs/oakmart-backend/internal/tax"
	"github.com/oakmart-labs/oakmart-backend/pkg/enums"
	pkgerrors "github.com/oakmart-labs/oakmart-backend/pkg/errors"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/oakmart-labs/oakmart-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

type couponValidator interface {
	Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (*coupons.ValidationResult, error)
}

type shippingQuoter interface {
	CalculateShipping(ctx context.Context, destination string, orderTotal, weight decimal.Decimal) (*shipping.Quote, error)
}

type taxCalculator interface {
	CalculateTax(ctx context.Context, subtotal decimal.Decimal, region string) (*tax.Result, error)
}

// Service composes coupon, shipping, and tax resolution into one order total.
type Service interface {
	PriceOrder(ctx context.Context, input PriceOrderInput) (*Result, error)
}

type service struct {
	coupons  couponValidator
	shipping shippingQuoter
	tax      taxCalculator
	basis    enums.FreeShippingBasis
	logg     *logger.Logger
	metrics  *metrics.PricingMetrics
}

// NewService builds the pricing aggregator. The basis decides whether the
// free-shipping threshold sees the subtotal before or after the coupon
// discount.
func NewService(
	couponSvc couponValidator,
	shippingSvc shippingQuoter,
	taxSvc taxCalculator,
	basis enums.FreeShippingBasis,
	logg *logger.Logger,
	m *metrics.PricingMetrics,
) (Service, error) {
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon validator required")
	}
	if shippingSvc == nil {
		return nil, fmt.Errorf("shipping quoter required")
	}
	if taxSvc == nil {
		return nil, fmt.Errorf("tax calculator required")
	}
	if !basis.IsValid() {
		return nil, fmt.Errorf("invalid free shipping basis %q", basis)
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		coupons:  couponSvc,
		shipping: shippingSvc,
		tax:      taxSvc,
		basis:    basis,
		logg:     logg,
		metrics:  m,
	}, nil
}

// PriceOrder derives subtotal, discount, shipping, tax, and total in a fixed
// sequence: subtotal, then coupon discount, then shipping on the configured
// basis, then tax on the discounted subtotal. Every term is rounded to two
// decimals before the final sum so the parts always reconcile with the total.
func (s *service) PriceOrder(ctx context.Context, input PriceOrderInput) (*Result, error) {
	started := time.Now()

	result, err := s.priceOrder(ctx, input)
	s.observe(started, err)
	return result, err
}

func (s *service) priceOrder(ctx context.Context, input PriceOrderInput) (*Result, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range input.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	meta := Metadata{}
	if code := strings.TrimSpace(input.CouponCode); code != "" {
		validation, err := s.coupons.Validate(ctx, code, subtotal)
		if err != nil {
			return nil, err
		}
		meta.CouponMessage = validation.Message
		if validation.Valid {
			discount = validation.Discount
			meta.CouponCode = validation.Coupon.Code
			s.metrics.IncCouponCheck("valid")
		} else {
			s.metrics.IncCouponCheck("invalid")
		}
	}

	discountedSubtotal := subtotal.Sub(discount)

	shippingBase := discountedSubtotal
	if s.basis == enums.FreeShippingBasisPreDiscount {
		shippingBase = subtotal
	}
	quote, err := s.shipping.CalculateShipping(ctx, input.Destination, shippingBase, input.Weight)
	if err != nil {
		return nil, err
	}
	meta.ZoneName = quote.ZoneName
	meta.EstimatedDelivery = quote.EstimatedDays

	taxRes, err := s.tax.CalculateTax(ctx, discountedSubtotal, input.Region)
	if err != nil {
		return nil, err
	}
	meta.TaxName = taxRes.TaxName

	total := discountedSubtotal.Add(quote.Cost).Add(taxRes.TaxAmount).Round(2)

	return &Result{
		Subtotal:     subtotal,
		Discount:     discount,
		ShippingCost: quote.Cost,
		TaxAmount:    taxRes.TaxAmount,
		Total:        total,
		Metadata:     meta,
	}, nil
}

func (s *service) observe(started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if typed := pkgerrors.As(err); typed != nil {
			switch typed.Code() {
			case pkgerrors.CodeValidation:
				outcome = "validation_error"
			case pkgerrors.CodeNotFound:
				outcome = "unserviceable"
			}
		}
	}
	s.metrics.ObserveQuote(outcome, time.Since(started))
}

func validateInput(input PriceOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price must be non-negative")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}
	if strings.TrimSpace(input.Destination) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	}
	if input.Weight.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "weight must be non-negative")
	}
	return nil
}
