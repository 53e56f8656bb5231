package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/morelandmachine/dispatch-backend/api/responses"
	"github.com/morelandmachine/dispatch-backend/internal/jobs"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
)

// JobOperations returns the routing operations for one job.
func JobOperations(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "jobs service unavailable"))
			return
		}

		jobNumber := strings.TrimSpace(chi.URLParam(r, "jobNumber"))
		if jobNumber == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "job number required"))
			return
		}

		ops, err := svc.Operations(ctx, jobNumber)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ops)
	}
}

// JobShortages returns the open material shortage rows for one job.
func JobShortages(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "jobs service unavailable"))
			return
		}

		jobNumber := strings.TrimSpace(chi.URLParam(r, "jobNumber"))
		if jobNumber == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "job number required"))
			return
		}

		shortages, err := svc.Shortages(ctx, jobNumber)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, shortages)
	}
}
