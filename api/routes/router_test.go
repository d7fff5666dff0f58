package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/oakmart-labs/oakmart-backend/internal/coupons"
	"github.com/oakmart-labs/oakmart-backend/internal/pricing"
	"github.com/oakmart-labs/oakmart-backend/internal/shipping"
	"github.com/oakmart-labs/oakmart-backend/internal/tax"
	"github.com/oakmart-labs/oakmart-backend/pkg/config"
	"github.com/oakmart-labs/oakmart-backend/pkg/db/models"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/oakmart-labs/oakmart-backend/pkg/pagination"
	"github.com/oakmart-labs/oakmart-backend/pkg/redis"
	"github.com/rs/zerolog"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCouponService struct{}

func (stubCouponService) Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (*coupons.ValidationResult, error) {
	return &coupons.ValidationResult{Valid: true, Message: "Coupon applied successfully"}, nil
}

func (stubCouponService) Apply(ctx context.Context, code string, orderTotal decimal.Decimal, userID uuid.UUID) (*coupons.ApplyResult, error) {
	return &coupons.ApplyResult{Valid: true}, nil
}

func (stubCouponService) RecordUsage(ctx context.Context, input coupons.RecordUsageInput) error {
	return nil
}

func (stubCouponService) Create(ctx context.Context, input coupons.CreateCouponInput) (*models.Coupon, error) {
	panic("unimplemented")
}

func (stubCouponService) Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	panic("unimplemented")
}

func (stubCouponService) List(ctx context.Context, params pagination.Params) ([]models.Coupon, string, error) {
	return []models.Coupon{}, "", nil
}

func (stubCouponService) Update(ctx context.Context, id uuid.UUID, input coupons.UpdateCouponInput) (*models.Coupon, error) {
	panic("unimplemented")
}

func (stubCouponService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubShippingService struct{}

func (stubShippingService) CheckServiceability(ctx context.Context, destination string) (*shipping.ServiceabilityResult, error) {
	return &shipping.ServiceabilityResult{Serviceable: true}, nil
}

func (stubShippingService) CalculateShipping(ctx context.Context, destination string, orderTotal, weight decimal.Decimal) (*shipping.Quote, error) {
	return &shipping.Quote{}, nil
}

func (stubShippingService) Create(ctx context.Context, input shipping.CreateZoneInput) (*models.ShippingZone, error) {
	panic("unimplemented")
}

func (stubShippingService) Get(ctx context.Context, id uuid.UUID) (*models.ShippingZone, error) {
	panic("unimplemented")
}

func (stubShippingService) List(ctx context.Context, params pagination.Params) ([]models.ShippingZone, string, error) {
	return []models.ShippingZone{}, "", nil
}

func (stubShippingService) Update(ctx context.Context, id uuid.UUID, input shipping.UpdateZoneInput) (*models.ShippingZone, error) {
	panic("unimplemented")
}

func (stubShippingService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubShippingService) AddPincodes(ctx context.Context, id uuid.UUID, pincodes []string) (*models.ShippingZone, error) {
	panic("unimplemented")
}

func (stubShippingService) RemovePincodes(ctx context.Context, id uuid.UUID, pincodes []string) (*models.ShippingZone, error) {
	panic("unimplemented")
}

type stubTaxService struct{}

func (stubTaxService) CalculateTax(ctx context.Context, subtotal decimal.Decimal, region string) (*tax.Result, error) {
	return &tax.Result{TaxName: tax.NoTaxName}, nil
}

func (stubTaxService) Create(ctx context.Context, input tax.CreateRateInput) (*models.TaxRate, error) {
	panic("unimplemented")
}

func (stubTaxService) Get(ctx context.Context, id uuid.UUID) (*models.TaxRate, error) {
	panic("unimplemented")
}

func (stubTaxService) List(ctx context.Context, params pagination.Params) ([]models.TaxRate, string, error) {
	return []models.TaxRate{}, "", nil
}

func (stubTaxService) Update(ctx context.Context, id uuid.UUID, input tax.UpdateRateInput) (*models.TaxRate, error) {
	panic("unimplemented")
}

func (stubTaxService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubPricingService struct{}

func (stubPricingService) PriceOrder(ctx context.Context, input pricing.PriceOrderInput) (*pricing.Result, error) {
	return &pricing.Result{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		Idempotency: config.IdempotencyConfig{
			UsageRecordTTL: time.Hour,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		prometheus.NewRegistry(),
		stubCouponService{},
		stubShippingService{},
		stubTaxService{},
		stubPricingService{},
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
}

func TestCouponValidateRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons/validate", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestCouponValidateAcceptsGoodJSON(t *testing.T) {
	router := newTestRouter(testConfig())

	body := `{"code":"SAVE20","order_total":"100"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons/validate", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Coupon applied successfully") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestUsageRecordingRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(testConfig())

	body := `{"coupon_id":"` + uuid.NewString() + `","user_id":"` + uuid.NewString() + `","order_id":"` + uuid.NewString() + `","discount":"5"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons/usages", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Idempotency-Key") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestServiceabilityRoute(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipping/serviceability/560001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
}

func TestAdminCouponDetailRejectsBadID(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/coupons/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestAdminCouponListOK(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/coupons/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}
}
