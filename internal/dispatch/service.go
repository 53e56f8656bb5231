// Package dispatch owns the refresh pipeline and the snapshot every
// dispatch read serves from. One pass mirrors the ERP exports, reads them
// tolerantly, resolves jobs, enriches every order line and swaps a single
// snapshot reference. A failed pass leaves the previous snapshot in place.
package dispatch

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/morelandmachine/dispatch-backend/internal/cache"
	"github.com/morelandmachine/dispatch-backend/internal/enrich"
	"github.com/morelandmachine/dispatch-backend/internal/resolve"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
	"github.com/morelandmachine/dispatch-backend/pkg/metrics"
)

// Service exposes the refresh pipeline and the snapshot reads behind the
// dispatch page.
type Service interface {
	Refresh(ctx context.Context, force bool) (*Stats, error)
	Lines(ctx context.Context, params ListParams) (*ListResult, error)
	Stats(ctx context.Context) (*Stats, error)
	Gantt(ctx context.Context, group enums.GanttGroup) ([]GanttRow, error)
	Snapshot() *Snapshot
}

// Params configure the dispatch service.
type Params struct {
	Logger          *logger.Logger
	Cache           *cache.Manager
	Reader          *sources.Reader
	StockJobPattern *regexp.Regexp
	Metrics         *metrics.RefreshMetrics
}

type service struct {
	logg    *logger.Logger
	cache   *cache.Manager
	reader  *sources.Reader
	pattern *regexp.Regexp
	metrics *metrics.RefreshMetrics

	refreshMu sync.Mutex
	mu        sync.RWMutex
	snap      *Snapshot

	now func() time.Time
}

// NewService validates the dependencies and returns a dispatch service
// with no snapshot loaded yet.
func NewService(params Params) (Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service requires a logger")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service requires a cache manager")
	}
	if params.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service requires a source reader")
	}
	if params.StockJobPattern == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service requires a stock job pattern")
	}
	return &service{
		logg:    params.Logger,
		cache:   params.Cache,
		reader:  params.Reader,
		pattern: params.StockJobPattern,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

// Refresh runs one pipeline pass. Passes are serialized; a pass that loads
// zero order lines fails and keeps the previous snapshot readable.
func (s *service) Refresh(ctx context.Context, force bool) (*Stats, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := s.now()
	ctx = s.logg.WithField(ctx, "force", force)

	if _, err := s.cache.Sync(ctx, force); err != nil {
		// Per-key copy failures are already in the cache metadata; the
		// pass reads whatever mirror or source path is still available.
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cache sync reported failures")
	}

	lines := s.reader.OrderLines(ctx, s.cache.Resolve(sources.KeyOrderLines))
	if len(lines) == 0 {
		s.metrics.IncFailure()
		return nil, pkgerrors.New(pkgerrors.CodeSourceUnavailable, "order lines source produced no rows")
	}

	ops, jobs := s.reader.ShopOrders(ctx, s.cache.Resolve(sources.KeyShopOrders))
	registry := s.reader.RegistryJobs(ctx, s.cache.Resolve(sources.KeyJobRegistry))
	labor := s.reader.LaborHistory(ctx, s.cache.Resolve(sources.KeyLaborHistory))
	inventory := s.reader.Inventory(ctx, s.cache.Resolve(sources.KeyPartInventory))
	customers := s.reader.ESICustomers(ctx, s.cache.Resolve(sources.KeyCustomers))
	comments := s.reader.Comments(ctx, s.cache.Resolve(sources.KeyComments))
	shortages := s.reader.Shortages(ctx, s.cache.Resolve(sources.KeyMaterialShortage))

	now := s.now()
	enriched := enrich.Enrich(enrich.Inputs{
		Lines:     lines,
		Details:   enrich.CombineJobDetails(jobs, registry, ops),
		Indexes:   resolve.BuildIndexes(jobs, registry, s.pattern),
		Labor:     labor,
		Customers: customers,
		ShortJobs: sources.ShortJobs(shortages),
		Inventory: inventory,
		Comments:  comments,
		Now:       now,
	})

	snap := &Snapshot{
		Lines: enriched,
		SourceRows: map[sources.Key]int{
			sources.KeyOrderLines:       len(lines),
			sources.KeyShopOrders:       len(ops),
			sources.KeyJobRegistry:      len(registry),
			sources.KeyLaborHistory:     len(labor),
			sources.KeyPartInventory:    len(inventory),
			sources.KeyCustomers:        len(customers),
			sources.KeyComments:         len(comments),
			sources.KeyMaterialShortage: len(shortages),
		},
		RefreshedAt: now,
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	elapsed := s.now().Sub(start)
	s.metrics.ObserveDuration(elapsed)
	s.metrics.IncSuccess()
	s.metrics.SetLineCount(len(enriched))
	s.metrics.SetLastRefresh(now)
	for key, rows := range snap.SourceRows {
		s.metrics.SetSourceRows(key.String(), rows)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"lines":       len(enriched),
		"duration_ms": elapsed.Milliseconds(),
	}), "dispatch snapshot refreshed")

	return statsFor(snap), nil
}

// Lines returns the snapshot lines matching the filters.
func (s *service) Lines(ctx context.Context, params ListParams) (*ListResult, error) {
	snap := s.current()
	if snap == nil {
		return nil, errNoSnapshot()
	}

	matched := make([]enrich.Line, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		if params.match(line) {
			matched = append(matched, line)
		}
	}
	return &ListResult{
		Lines:       matched,
		Matched:     len(matched),
		Total:       len(snap.Lines),
		RefreshedAt: snap.RefreshedAt,
	}, nil
}

// Stats summarizes the current snapshot.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	snap := s.current()
	if snap == nil {
		return nil, errNoSnapshot()
	}
	return statsFor(snap), nil
}

// Snapshot returns the current snapshot, or nil before the first
// successful refresh.
func (s *service) Snapshot() *Snapshot {
	return s.current()
}

func (s *service) current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func statsFor(snap *Snapshot) *Stats {
	stats := &Stats{
		TotalLines:  len(snap.Lines),
		ByStatus:    map[enums.LineStatus]int{},
		SourceRows:  snap.SourceRows,
		RefreshedAt: snap.RefreshedAt,
	}
	for _, line := range snap.Lines {
		stats.ByStatus[line.Status]++
		if line.IsPastDue {
			stats.PastDue++
		}
		if line.MaterialShort {
			stats.MaterialShort++
		}
		if line.CanShip {
			stats.CanShip++
		}
		if line.IsESI {
			stats.ESI++
		}
	}
	return stats
}

func errNoSnapshot() error {
	return pkgerrors.New(pkgerrors.CodeSourceUnavailable, "dispatch snapshot not ready, run a refresh")
}
