package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/oakmart-labs/oakmart-backend/api/responses"
	"github.com/oakmart-labs/oakmart-backend/pkg/config"
	"github.com/oakmart-labs/oakmart-backend/pkg/db"
	pkgerrors "github.com/oakmart-labs/oakmart-backend/pkg/errors"
	"github.com/oakmart-labs/oakmart-backend/pkg/logger"
	"github.com/oakmart-labs/oakmart-backend/pkg/redis"
)

const envHeader = "X-Oakmart-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the datastore and cache answer pings.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
