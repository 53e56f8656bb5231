package controllers

import (
	"net/http"

	"github.com/morelandmachine/dispatch-backend/api/responses"
	"github.com/morelandmachine/dispatch-backend/pkg/config"
	"github.com/morelandmachine/dispatch-backend/pkg/db"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Dispatch-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the notes store answers a ping.
// The ERP mirrors may be stale or missing at startup; the first refresh
// pass repairs those.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Dispatch-Env", cfg.App.Env)

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database pinger unavailable"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeSourceUnavailable, err, "notes store not ready"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
