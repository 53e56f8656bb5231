// Package purchasing serves the open purchase-order reads: the filterable
// line list, per-supplier delivery metrics and the PO-to-job linkage
// table. PO lines are read fresh on every call so due-date facts track the
// clock, not the last snapshot refresh.
package purchasing

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/morelandmachine/dispatch-backend/internal/cache"
	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	"github.com/morelandmachine/dispatch-backend/internal/enrich"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
)

const defaultDueSoonDays = 7

// POParams narrow the open PO list. Zero values leave a dimension
// unfiltered.
type POParams struct {
	Supplier    string
	OverdueOnly bool
	DueSoonOnly bool
}

// SupplierMetric aggregates one supplier's open lines.
type SupplierMetric struct {
	Supplier     string          `json:"supplier"`
	TotalPOs     int             `json:"total_pos"`
	TotalLines   int             `json:"total_lines"`
	TotalQty     decimal.Decimal `json:"total_qty"`
	OverdueLines int             `json:"overdue_lines"`
	LinkedJobs   int             `json:"linked_jobs"`
	OnTimeRate   float64         `json:"on_time_rate"`
}

// LinkageRow ties an open PO line to the dispatch view of its job. The
// job fields stay empty when the job is not in the current snapshot.
type LinkageRow struct {
	PO           string          `json:"po"`
	Job          string          `json:"job"`
	Part         string          `json:"part"`
	Supplier     string          `json:"supplier"`
	Qty          decimal.Decimal `json:"qty"`
	DueDate      *time.Time      `json:"due_date"`
	DaysUntilDue int             `json:"days_until_due"`
	IsOverdue    bool            `json:"is_overdue"`

	JobPart   string           `json:"job_part,omitempty"`
	Customer  string           `json:"customer,omitempty"`
	JobStatus enums.LineStatus `json:"job_status,omitempty"`
}

type snapshotSource interface {
	Snapshot() *dispatch.Snapshot
}

// Service exposes the purchasing page reads.
type Service interface {
	OpenPOs(ctx context.Context, params POParams) ([]sources.POLine, error)
	SupplierMetrics(ctx context.Context) ([]SupplierMetric, error)
	Linkage(ctx context.Context) ([]LinkageRow, error)
}

// Params configure the purchasing service.
type Params struct {
	Cache       *cache.Manager
	Reader      *sources.Reader
	Dispatch    snapshotSource
	DueSoonDays int
}

type service struct {
	cache       *cache.Manager
	reader      *sources.Reader
	dispatch    snapshotSource
	dueSoonDays int
	now         func() time.Time
}

// NewService validates the dependencies and returns a purchasing service.
func NewService(params Params) (Service, error) {
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "purchasing service requires a cache manager")
	}
	if params.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "purchasing service requires a source reader")
	}
	if params.Dispatch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "purchasing service requires a dispatch snapshot source")
	}
	dueSoonDays := params.DueSoonDays
	if dueSoonDays <= 0 {
		dueSoonDays = defaultDueSoonDays
	}
	return &service{
		cache:       params.Cache,
		reader:      params.Reader,
		dispatch:    params.Dispatch,
		dueSoonDays: dueSoonDays,
		now:         time.Now,
	}, nil
}

// OpenPOs returns the open PO lines matching the filters.
func (s *service) OpenPOs(ctx context.Context, params POParams) ([]sources.POLine, error) {
	matched := make([]sources.POLine, 0, 32)
	for _, line := range s.readPOs(ctx) {
		if params.Supplier != "" && !strings.EqualFold(line.Supplier, params.Supplier) {
			continue
		}
		if params.OverdueOnly && !line.IsOverdue {
			continue
		}
		if params.DueSoonOnly && !line.IsDueSoon {
			continue
		}
		matched = append(matched, line)
	}
	return matched, nil
}

// SupplierMetrics aggregates open lines per supplier, worst overdue count
// first. An empty upstream yields an empty result, never an error.
func (s *service) SupplierMetrics(ctx context.Context) ([]SupplierMetric, error) {
	type agg struct {
		pos     map[string]struct{}
		lines   int
		qty     decimal.Decimal
		overdue int
		linked  int
	}
	byName := map[string]*agg{}
	var names []string

	for _, line := range s.readPOs(ctx) {
		if line.Supplier == "" {
			continue
		}
		a, seen := byName[line.Supplier]
		if !seen {
			a = &agg{pos: map[string]struct{}{}}
			byName[line.Supplier] = a
			names = append(names, line.Supplier)
		}
		if line.PO != "" {
			a.pos[line.PO] = struct{}{}
		}
		a.lines++
		a.qty = a.qty.Add(line.Qty)
		if line.IsOverdue {
			a.overdue++
		}
		if line.Job != "" {
			a.linked++
		}
	}

	result := make([]SupplierMetric, 0, len(names))
	for _, name := range names {
		a := byName[name]
		result = append(result, SupplierMetric{
			Supplier:     name,
			TotalPOs:     len(a.pos),
			TotalLines:   a.lines,
			TotalQty:     a.qty,
			OverdueLines: a.overdue,
			LinkedJobs:   a.linked,
			OnTimeRate:   onTimeRate(a.lines, a.overdue),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OverdueLines != result[j].OverdueLines {
			return result[i].OverdueLines > result[j].OverdueLines
		}
		return result[i].Supplier < result[j].Supplier
	})
	return result, nil
}

// Linkage returns the job-linked PO lines joined against the snapshot.
func (s *service) Linkage(ctx context.Context) ([]LinkageRow, error) {
	byJob := map[string]enrich.Line{}
	if snap := s.dispatch.Snapshot(); snap != nil {
		for _, line := range snap.Lines {
			if _, seen := byJob[line.Job]; !seen {
				byJob[line.Job] = line
			}
		}
	}

	rows := make([]LinkageRow, 0, 32)
	for _, po := range s.readPOs(ctx) {
		if po.Job == "" {
			continue
		}
		row := LinkageRow{
			PO:           po.PO,
			Job:          po.Job,
			Part:         po.Part,
			Supplier:     po.Supplier,
			Qty:          po.Qty,
			DueDate:      po.DueDate,
			DaysUntilDue: po.DaysUntilDue,
			IsOverdue:    po.IsOverdue,
		}
		if line, linked := byJob[po.Job]; linked {
			row.JobPart = line.Part
			row.Customer = line.Customer
			row.JobStatus = line.Status
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *service) readPOs(ctx context.Context) []sources.POLine {
	return s.reader.OpenPOs(ctx, s.cache.Resolve(sources.KeyOpenPO), s.now(), s.dueSoonDays)
}

// onTimeRate is the share of lines not overdue as a percentage, one
// decimal.
func onTimeRate(lines, overdue int) float64 {
	if lines == 0 {
		return 0
	}
	return math.Round(float64(lines-overdue)/float64(lines)*1000) / 10
}
