package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records outcomes of the order pricing pipeline.
type PricingMetrics struct {
	duration     *prometheus.HistogramVec
	quotes       *prometheus.CounterVec
	couponChecks *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_quote_duration_seconds",
		Help:    "Duration of order pricing computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_quotes_total",
		Help: "Order pricing computations by outcome.",
	}, []string{"outcome"})
	couponChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_validations_total",
		Help: "Coupon validation attempts by result.",
	}, []string{"result"})
	reg.MustRegister(duration, quotes, couponChecks)
	return &PricingMetrics{
		duration:     duration,
		quotes:       quotes,
		couponChecks: couponChecks,
	}
}

// ObserveQuote records one pricing computation.
func (p *PricingMetrics) ObserveQuote(outcome string, duration time.Duration) {
	if p == nil || p.quotes == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	p.quotes.WithLabelValues(outcome).Inc()
	p.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncCouponCheck counts one coupon validation attempt.
func (p *PricingMetrics) IncCouponCheck(result string) {
	if p == nil || p.couponChecks == nil {
		return
	}
	p.couponChecks.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
