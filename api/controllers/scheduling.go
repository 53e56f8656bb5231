package controllers

import (
	"net/http"
	"strings"

	"github.com/morelandmachine/dispatch-backend/api/responses"
	"github.com/morelandmachine/dispatch-backend/api/validators"
	"github.com/morelandmachine/dispatch-backend/internal/scheduling"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
)

// SchedulingBoard returns per-operation board rows narrowed by the query
// filters.
func SchedulingBoard(svc scheduling.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service unavailable"))
			return
		}

		params := scheduling.BoardParams{
			WorkCenter: strings.TrimSpace(r.URL.Query().Get("work_center")),
			Job:        strings.TrimSpace(r.URL.Query().Get("job")),
		}

		var err error
		if params.IncludeCompleted, err = validators.ParseQueryBool(r, "include_completed"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := svc.Board(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// SchedulingWorkCenters returns the distinct work center names seen in
// the routing export.
func SchedulingWorkCenters(svc scheduling.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service unavailable"))
			return
		}

		centers, err := svc.WorkCenters(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, centers)
	}
}
