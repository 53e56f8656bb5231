// Package jobs serves the per-job drill-down reads: the operation
// breakdown and the material shortage detail. Both read fresh from the
// mirrored exports so the panel never waits on a snapshot refresh.
package jobs

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/morelandmachine/dispatch-backend/internal/cache"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
)

// ShortageDetail is one unmet material requirement for a job.
type ShortageDetail struct {
	sources.ShortageLine
	ShortQty decimal.Decimal `json:"short_qty"`
}

// Service exposes the job drill-down reads.
type Service interface {
	Operations(ctx context.Context, jobNumber string) ([]sources.Operation, error)
	Shortages(ctx context.Context, jobNumber string) ([]ShortageDetail, error)
}

// Params configure the jobs service.
type Params struct {
	Cache  *cache.Manager
	Reader *sources.Reader
}

type service struct {
	cache  *cache.Manager
	reader *sources.Reader
}

// NewService validates the dependencies and returns a jobs service.
func NewService(params Params) (Service, error) {
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "jobs service requires a cache manager")
	}
	if params.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "jobs service requires a source reader")
	}
	return &service{cache: params.Cache, reader: params.Reader}, nil
}

// Operations returns the job's operations ordered by sequence. An unknown
// job yields an empty list, not an error.
func (s *service) Operations(ctx context.Context, jobNumber string) ([]sources.Operation, error) {
	jobNumber = strings.TrimSpace(jobNumber)
	if jobNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job number required")
	}

	ops, _ := s.reader.ShopOrders(ctx, s.cache.Resolve(sources.KeyShopOrders))
	matched := make([]sources.Operation, 0, 8)
	for _, op := range ops {
		if op.Job == jobNumber {
			matched = append(matched, op)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Sequence < matched[j].Sequence
	})
	return matched, nil
}

// Shortages returns the job's shortage lines where more material is
// required than has been issued.
func (s *service) Shortages(ctx context.Context, jobNumber string) ([]ShortageDetail, error) {
	jobNumber = strings.TrimSpace(jobNumber)
	if jobNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job number required")
	}

	lines := s.reader.Shortages(ctx, s.cache.Resolve(sources.KeyMaterialShortage))
	matched := make([]ShortageDetail, 0, 4)
	for _, line := range lines {
		if line.Job != jobNumber || !line.Short() {
			continue
		}
		matched = append(matched, ShortageDetail{ShortageLine: line, ShortQty: line.ShortQty()})
	}
	return matched, nil
}
