package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/oakmart-labs/oakmart-backend/api/routes"
	"github.com/oakmart-labs/oakmart-backend/internal/coupons"
	"github.com/oakmart-labs/oakmart-backend/internal/pricing"
	"github.com/oakmart-labs/oakmart-backend/internal/shipping"
	"github.com/oakmart-labs/oakmart-backend/internal/tax"
	"github.com/oakmart-labs/oakmart-backend/pkg/config"
	"github.com/oakmart-labs/oakmart-backend/pkg/db"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/oakmart-labs/oakmart-backend/pkg/metrics"
	"github.com/oakmart-labs/oakmart-backend/pkg/migrate"
	"github.com/oakmart-labs/oakmart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pricing-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pricing-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pricingMetrics := metrics.NewPricingMetrics(registry)

	couponService, err := coupons.NewService(coupons.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	shippingService, err := shipping.NewService(shipping.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	taxService, err := tax.NewService(tax.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tax service", err)
		os.Exit(1)
	}

	basis, err := cfg.Pricing.Basis()
	if err != nil {
		logg.Error(context.Background(), "invalid pricing config", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(couponService, shippingService, taxService, basis, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"basis": basis,
	})
	logg.Info(ctx, "starting pricing api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, couponService, shippingService, taxService, pricingService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "pricing api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
