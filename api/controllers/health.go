package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/pkg/config"
	"github.com/YodaBikarbona/school-book-server/pkg/db"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
	"github.com/YodaBikarbona/school-book-server/pkg/redis"
)

// HealthLive reports process liveness without touching dependencies.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SchoolBook-Env", cfg.App.Env)
		responses.WriteSuccess(w, "live", nil)
	}
}

// HealthReady pings the database and redis. Either failing makes the
// instance not ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SchoolBook-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database not ready"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "redis not ready"))
				return
			}
		}

		responses.WriteSuccess(w, "ready", nil)
	}
}
