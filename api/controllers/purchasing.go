package controllers

import (
	"net/http"
	"strings"

	"github.com/morelandmachine/dispatch-backend/api/responses"
	"github.com/morelandmachine/dispatch-backend/api/validators"
	"github.com/morelandmachine/dispatch-backend/internal/purchasing"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
)

// PurchasingOpenPOs returns open purchase order lines narrowed by the
// query filters.
func PurchasingOpenPOs(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchasing service unavailable"))
			return
		}

		params := purchasing.POParams{
			Supplier: strings.TrimSpace(r.URL.Query().Get("supplier")),
		}

		var err error
		if params.OverdueOnly, err = validators.ParseQueryBool(r, "overdue_only"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if params.DueSoonOnly, err = validators.ParseQueryBool(r, "due_soon_only"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := svc.OpenPOs(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, lines)
	}
}

// PurchasingSuppliers returns per-supplier delivery metrics.
func PurchasingSuppliers(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchasing service unavailable"))
			return
		}

		metrics, err := svc.SupplierMetrics(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}

// PurchasingLinkage joins open PO lines to the dispatch lines of the jobs
// they feed.
func PurchasingLinkage(svc purchasing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchasing service unavailable"))
			return
		}

		rows, err := svc.Linkage(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
