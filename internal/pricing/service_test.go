package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/oakmart-labs/oakmart-backend/internal/coupons"
	"github.com/oakmart-labs/oakmart-backend/internal/shipping"
	"github.com/oakmart-labs/oakmart-backend/internal/tax"
	"github.com/oakmart-labs/oakmart-backend/pkg/enums"
	pkgerrors "github.com/oakmart-labs/oakmart-backend/pkg/errors"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

type stubCouponValidator struct {
	result *coupons.ValidationResult
	gotTotal decimal.Decimal
}

func (s *stubCouponValidator) Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (*coupons.ValidationResult, error) {
	s.gotTotal = orderTotal
	if s.result != nil {
		return s.result, nil
	}
	return &coupons.ValidationResult{Valid: false, Discount: decimal.Zero, Message: "Coupon not found"}, nil
}

type stubShippingQuoter struct {
	freeAbove decimal.Decimal
	baseCost  decimal.Decimal
	err       error
	gotTotal  decimal.Decimal
}

func (s *stubShippingQuoter) CalculateShipping(ctx context.Context, destination string, orderTotal, weight decimal.Decimal) (*shipping.Quote, error) {
	s.gotTotal = orderTotal
	if s.err != nil {
		return nil, s.err
	}
	if !s.freeAbove.IsZero() && orderTotal.GreaterThanOrEqual(s.freeAbove) {
		return &shipping.Quote{Cost: decimal.Zero, IsFree: true, EstimatedDays: "3-5 days", ZoneName: "Domestic"}, nil
	}
	return &shipping.Quote{Cost: s.baseCost, IsFree: false, EstimatedDays: "3-5 days", ZoneName: "Domestic"}, nil
}

type stubTaxCalculator struct {
	rate decimal.Decimal
	name string
}

func (s *stubTaxCalculator) CalculateTax(ctx context.Context, subtotal decimal.Decimal, region string) (*tax.Result, error) {
	if s.name == "" {
		return &tax.Result{TaxAmount: decimal.Zero, TaxRate: decimal.Zero, TaxName: tax.NoTaxName}, nil
	}
	return &tax.Result{
		TaxAmount: subtotal.Mul(s.rate).Div(decimal.NewFromInt(100)).Round(2),
		TaxRate:   s.rate,
		TaxName:   s.name,
	}, nil
}

func validCoupon(discount string) *coupons.ValidationResult {
	return &coupons.ValidationResult{
		Valid:    true,
		Discount: dec(discount),
		Message:  "Coupon applied successfully",
		Coupon: &coupons.CouponSummary{
			ID:            uuid.New(),
			Code:          "SAVE20",
			DiscountType:  enums.DiscountTypePercentage,
			DiscountValue: dec("20"),
		},
	}
}

func newTestService(c couponValidator, sh shippingQuoter, tx taxCalculator, basis enums.FreeShippingBasis) Service {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(c, sh, tx, basis, logg, nil)
	if err != nil {
		panic(err)
	}
	return svc
}

func TestPriceOrderRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		&stubCouponValidator{result: validCoupon("30")},
		&stubShippingQuoter{baseCost: dec("5.99"), freeAbove: dec("500")},
		&stubTaxCalculator{rate: dec("7.5"), name: "US Sales Tax"},
		enums.FreeShippingBasisPostDiscount,
	)

	res, err := svc.PriceOrder(context.Background(), PriceOrderInput{
		Items: []LineItem{
			{Name: "Widget", Price: dec("50"), Quantity: 3},
			{Name: "Gadget", Price: dec("25"), Quantity: 2},
		},
		Destination: "10001",
		CouponCode:  "SAVE20",
		Region:      "US",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Subtotal.Equal(dec("200")) {
		t.Fatalf("expected subtotal 200, got %s", res.Subtotal)
	}
	if !res.Discount.Equal(dec("30")) {
		t.Fatalf("expected discount 30, got %s", res.Discount)
	}
	// tax applies to the discounted subtotal: 170 * 7.5% = 12.75
	if !res.TaxAmount.Equal(dec("12.75")) {
		t.Fatalf("expected tax 12.75, got %s", res.TaxAmount)
	}

	expected := res.Subtotal.Sub(res.Discount).Add(res.ShippingCost).Add(res.TaxAmount).Round(2)
	if !res.Total.Equal(expected) {
		t.Fatalf("total %s does not reconcile with parts %s", res.Total, expected)
	}
	if res.Metadata.ZoneName != "Domestic" || res.Metadata.TaxName != "US Sales Tax" {
		t.Fatalf("unexpected metadata: %+v", res.Metadata)
	}
	if res.Metadata.EstimatedDelivery != "3-5 days" {
		t.Fatalf("unexpected estimate: %q", res.Metadata.EstimatedDelivery)
	}
}

func TestPriceOrderInvalidCouponProceedsWithoutDiscount(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		&stubCouponValidator{},
		&stubShippingQuoter{baseCost: dec("5.99")},
		&stubTaxCalculator{},
		enums.FreeShippingBasisPostDiscount,
	)

	res, err := svc.PriceOrder(context.Background(), PriceOrderInput{
		Items:       []LineItem{{Price: dec("40"), Quantity: 1}},
		Destination: "10001",
		CouponCode:  "BOGUS",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Discount.IsZero() {
		t.Fatalf("expected zero discount for invalid coupon, got %s", res.Discount)
	}
	if res.Metadata.CouponMessage != "Coupon not found" {
		t.Fatalf("expected coupon message surfaced, got %q", res.Metadata.CouponMessage)
	}
	if !res.Total.Equal(dec("45.99")) {
		t.Fatalf("expected 40 + 5.99, got %s", res.Total)
	}
}

func TestPriceOrderFreeShippingBasis(t *testing.T) {
	t.Parallel()

	// subtotal 60, discount 20. Threshold 50: post-discount basis sees 40
	// and charges shipping, pre-discount basis sees 60 and ships free.
	input := PriceOrderInput{
		Items:       []LineItem{{Price: dec("60"), Quantity: 1}},
		Destination: "10001",
		CouponCode:  "SAVE20",
	}

	post := &stubShippingQuoter{baseCost: dec("5.99"), freeAbove: dec("50")}
	svc := newTestService(&stubCouponValidator{result: validCoupon("20")}, post, &stubTaxCalculator{}, enums.FreeShippingBasisPostDiscount)
	res, err := svc.PriceOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.ShippingCost.Equal(dec("5.99")) {
		t.Fatalf("post-discount basis: expected shipping 5.99, got %s", res.ShippingCost)
	}
	if !post.gotTotal.Equal(dec("40")) {
		t.Fatalf("post-discount basis: quoter must see 40, saw %s", post.gotTotal)
	}

	pre := &stubShippingQuoter{baseCost: dec("5.99"), freeAbove: dec("50")}
	svc = newTestService(&stubCouponValidator{result: validCoupon("20")}, pre, &stubTaxCalculator{}, enums.FreeShippingBasisPreDiscount)
	res, err = svc.PriceOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.ShippingCost.IsZero() {
		t.Fatalf("pre-discount basis: expected free shipping, got %s", res.ShippingCost)
	}
	if !pre.gotTotal.Equal(dec("60")) {
		t.Fatalf("pre-discount basis: quoter must see 60, saw %s", pre.gotTotal)
	}
}

func TestPriceOrderUnserviceableDestination(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		&stubCouponValidator{},
		&stubShippingQuoter{err: pkgerrors.New(pkgerrors.CodeNotFound, "delivery not available for 99999")},
		&stubTaxCalculator{},
		enums.FreeShippingBasisPostDiscount,
	)

	_, err := svc.PriceOrder(context.Background(), PriceOrderInput{
		Items:       []LineItem{{Price: dec("40"), Quantity: 1}},
		Destination: "99999",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error to propagate, got %v", err)
	}
}

func TestPriceOrderInputValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(
		&stubCouponValidator{},
		&stubShippingQuoter{baseCost: dec("5.99")},
		&stubTaxCalculator{},
		enums.FreeShippingBasisPostDiscount,
	)

	cases := []struct {
		name  string
		input PriceOrderInput
	}{
		{"no items", PriceOrderInput{Destination: "10001"}},
		{"negative price", PriceOrderInput{Items: []LineItem{{Price: dec("-1"), Quantity: 1}}, Destination: "10001"}},
		{"zero quantity", PriceOrderInput{Items: []LineItem{{Price: dec("1"), Quantity: 0}}, Destination: "10001"}},
		{"no destination", PriceOrderInput{Items: []LineItem{{Price: dec("1"), Quantity: 1}}}},
		{"negative weight", PriceOrderInput{Items: []LineItem{{Price: dec("1"), Quantity: 1}}, Destination: "10001", Weight: dec("-2")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PriceOrder(context.Background(), tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPriceOrderCouponSeesPreDiscountSubtotal(t *testing.T) {
	t.Parallel()

	validator := &stubCouponValidator{result: validCoupon("10")}
	svc := newTestService(validator, &stubShippingQuoter{baseCost: dec("5.99")}, &stubTaxCalculator{}, enums.FreeShippingBasisPostDiscount)

	_, err := svc.PriceOrder(context.Background(), PriceOrderInput{
		Items:       []LineItem{{Price: dec("19.99"), Quantity: 2}},
		Destination: "10001",
		CouponCode:  "SAVE20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !validator.gotTotal.Equal(dec("39.98")) {
		t.Fatalf("validator must see raw subtotal 39.98, saw %s", validator.gotTotal)
	}
}
