package controllers

import (
	"net/http"
	"strings"

	"github.com/morelandmachine/dispatch-backend/api/responses"
	"github.com/morelandmachine/dispatch-backend/api/validators"
	"github.com/morelandmachine/dispatch-backend/internal/cache"
	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
)

// DispatchRefresh runs one pipeline pass and returns the fresh snapshot
// stats. force bypasses the cache staleness check.
func DispatchRefresh(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		force, err := validators.ParseQueryBool(r, "force")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stats, err := svc.Refresh(ctx, force)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// DispatchLines returns snapshot lines narrowed by the query filters.
func DispatchLines(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		params := dispatch.ListParams{}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseLineStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = status
		}

		esi, err := enums.ParseESIFilter(strings.TrimSpace(r.URL.Query().Get("esi")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid esi filter"))
			return
		}
		params.ESI = esi

		params.Customer = strings.TrimSpace(r.URL.Query().Get("customer"))

		if params.PastDueOnly, err = validators.ParseQueryBool(r, "past_due_only"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if params.ShortageOnly, err = validators.ParseQueryBool(r, "shortage_only"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if params.CanShipOnly, err = validators.ParseQueryBool(r, "can_ship_only"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp, err := svc.Lines(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// DispatchStats returns the headline counters for the current snapshot.
func DispatchStats(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		stats, err := svc.Stats(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// DispatchGantt returns schedule bars grouped by the group_by key.
func DispatchGantt(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		group, err := enums.ParseGanttGroup(strings.TrimSpace(r.URL.Query().Get("group_by")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid group_by value"))
			return
		}

		rows, err := svc.Gantt(ctx, group)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CacheStatus reports per-source mirror state from the last sync.
func CacheStatus(mgr *cache.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if mgr == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cache manager unavailable"))
			return
		}
		responses.WriteSuccess(w, mgr.Status())
	}
}
