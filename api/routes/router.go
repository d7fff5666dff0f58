package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakmart-labs/oakmart-backend/api/controllers"
	"github.com/oakmart-labs/oakmart-backend/api/middleware"
	"github.com/oakmart-labs/oakmart-backend/internal/coupons"
	"github.com/oakmart-labs/oakmart-backend/internal/pricing"
	"github.com/oakmart-labs/oakmart-backend/internal/shipping"
	"github.com/oakmart-labs/oakmart-backend/internal/tax"
	"github.com/oakmart-labs/oakmart-backend/pkg/config"
	"github.com/oakmart-labs/oakmart-backend/pkg/db"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/oakmart-labs/oakmart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	couponService coupons.Service,
	shippingService shipping.Service,
	taxService tax.Service,
	pricingService pricing.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg, cfg.Idempotency.UsageRecordTTL))

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/validate", controllers.CouponValidate(couponService, logg))
			r.Post("/apply", controllers.CouponApply(couponService, logg))
			r.Post("/usages", controllers.CouponRecordUsage(couponService, logg))
		})

		r.Route("/shipping", func(r chi.Router) {
			r.Get("/serviceability/{pincode}", controllers.ShippingServiceability(shippingService, logg))
			r.Post("/quote", controllers.ShippingQuote(shippingService, logg))
		})

		r.Post("/tax/quote", controllers.TaxQuote(taxService, logg))
		r.Post("/pricing/quote", controllers.PricingQuote(pricingService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/coupons", func(r chi.Router) {
			r.Post("/", controllers.AdminCouponCreate(couponService, logg))
			r.Get("/", controllers.AdminCouponList(couponService, logg))
			r.Get("/{couponId}", controllers.AdminCouponDetail(couponService, logg))
			r.Patch("/{couponId}", controllers.AdminCouponUpdate(couponService, logg))
			r.Delete("/{couponId}", controllers.AdminCouponDelete(couponService, logg))
		})

		r.Route("/shipping-zones", func(r chi.Router) {
			r.Post("/", controllers.AdminZoneCreate(shippingService, logg))
			r.Get("/", controllers.AdminZoneList(shippingService, logg))
			r.Get("/{zoneId}", controllers.AdminZoneDetail(shippingService, logg))
			r.Patch("/{zoneId}", controllers.AdminZoneUpdate(shippingService, logg))
			r.Delete("/{zoneId}", controllers.AdminZoneDelete(shippingService, logg))
			r.Post("/{zoneId}/pincodes", controllers.AdminZoneAddPincodes(shippingService, logg))
			r.Post("/{zoneId}/pincodes/remove", controllers.AdminZoneRemovePincodes(shippingService, logg))
		})

		r.Route("/tax-rates", func(r chi.Router) {
			r.Post("/", controllers.AdminTaxRateCreate(taxService, logg))
			r.Get("/", controllers.AdminTaxRateList(taxService, logg))
			r.Get("/{rateId}", controllers.AdminTaxRateDetail(taxService, logg))
			r.Patch("/{rateId}", controllers.AdminTaxRateUpdate(taxService, logg))
			r.Delete("/{rateId}", controllers.AdminTaxRateDelete(taxService, logg))
		})
	})

	return r
}
