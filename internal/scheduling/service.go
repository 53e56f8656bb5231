// Package scheduling serves the per-operation schedule board. Board rows
// carry their own status machine because an operation can finish while the
// order line it belongs to still waits on later operations.
package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/morelandmachine/dispatch-backend/internal/cache"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
)

// BoardParams narrow the schedule board. Completed operations are hidden
// unless IncludeCompleted is set.
type BoardParams struct {
	WorkCenter       string
	Job              string
	IncludeCompleted bool
}

// BoardRow is one operation on the schedule board.
type BoardRow struct {
	Job          string          `json:"job"`
	Sequence     int             `json:"sequence"`
	Label        string          `json:"label"`
	WorkCenter   string          `json:"work_center"`
	Part         string          `json:"part"`
	Description  string          `json:"description"`
	Status       enums.OpStatus  `json:"status"`
	RunQty       decimal.Decimal `json:"run_qty"`
	CompletedQty decimal.Decimal `json:"completed_qty"`
	Progress     float64         `json:"progress"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	LaborHours   decimal.Decimal `json:"labor_hours"`
	ShipBy       *time.Time      `json:"ship_by,omitempty"`
	IsPastDue    bool            `json:"is_past_due"`
}

// Service exposes the scheduling page reads.
type Service interface {
	Board(ctx context.Context, params BoardParams) ([]BoardRow, error)
	WorkCenters(ctx context.Context) ([]string, error)
}

// Params configure the scheduling service.
type Params struct {
	Cache  *cache.Manager
	Reader *sources.Reader
}

type service struct {
	cache  *cache.Manager
	reader *sources.Reader
	now    func() time.Time
}

// NewService validates the dependencies and returns a scheduling service.
func NewService(params Params) (Service, error) {
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service requires a cache manager")
	}
	if params.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "scheduling service requires a source reader")
	}
	return &service{
		cache:  params.Cache,
		reader: params.Reader,
		now:    time.Now,
	}, nil
}

// Board returns the schedule board rows matching the filters, ordered by
// job then operation sequence.
func (s *service) Board(ctx context.Context, params BoardParams) ([]BoardRow, error) {
	ops, _ := s.reader.ShopOrders(ctx, s.cache.Resolve(sources.KeyShopOrders))
	today := midnight(s.now())

	rows := make([]BoardRow, 0, len(ops))
	for _, op := range ops {
		if !isWorkCenter(op.WorkCenter) {
			continue
		}
		if params.WorkCenter != "" && !strings.EqualFold(op.WorkCenter, params.WorkCenter) {
			continue
		}
		if params.Job != "" && op.Job != params.Job {
			continue
		}
		row := boardRow(op, today)
		if row.Status == enums.OpStatusCompleted && !params.IncludeCompleted {
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Job != rows[j].Job {
			return rows[i].Job < rows[j].Job
		}
		return rows[i].Sequence < rows[j].Sequence
	})
	return rows, nil
}

// WorkCenters returns the distinct work-center names on the shop floor,
// sorted.
func (s *service) WorkCenters(ctx context.Context) ([]string, error) {
	ops, _ := s.reader.ShopOrders(ctx, s.cache.Resolve(sources.KeyShopOrders))

	seen := map[string]struct{}{}
	centers := make([]string, 0, 16)
	for _, op := range ops {
		if !isWorkCenter(op.WorkCenter) {
			continue
		}
		if _, dup := seen[op.WorkCenter]; dup {
			continue
		}
		seen[op.WorkCenter] = struct{}{}
		centers = append(centers, op.WorkCenter)
	}
	sort.Strings(centers)
	return centers, nil
}

func boardRow(op sources.Operation, today time.Time) BoardRow {
	row := BoardRow{
		Job:          op.Job,
		Sequence:     op.Sequence,
		Label:        fmt.Sprintf("%s - Op %d", op.Job, op.Sequence),
		WorkCenter:   op.WorkCenter,
		Part:         op.Part,
		Description:  op.Description,
		Status:       opStatus(op),
		RunQty:       op.RunQty,
		CompletedQty: op.CompletedQty,
		Progress:     progressPct(op.CompletedQty, op.RunQty),
		TotalHours:   op.EstProdHours.Add(op.EstSetupHours),
		LaborHours:   op.LaborHours,
		ShipBy:       op.ShipBy,
	}
	if op.ShipBy != nil {
		row.IsPastDue = midnight(*op.ShipBy).Before(today)
	}
	return row
}

// opStatus resolves the board status. Completion wins over everything so a
// finished operation never shows as unengineered.
func opStatus(op sources.Operation) enums.OpStatus {
	switch {
	case op.RunQty.IsPositive() && op.CompletedQty.GreaterThanOrEqual(op.RunQty):
		return enums.OpStatusCompleted
	case op.HasProduction:
		return enums.OpStatusInWork
	case !op.Engineered:
		return enums.OpStatusUnengineered
	default:
		return enums.OpStatusNotStarted
	}
}

// isWorkCenter filters out the numeric codes and free-text noise the ERP
// mixes into the operation-description column. Real work-center names are
// short words that start with a letter.
func isWorkCenter(name string) bool {
	if len(name) < 3 || len(name) > 30 {
		return false
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLetter(first)
}

func progressPct(completed, run decimal.Decimal) float64 {
	if !run.IsPositive() {
		return 0
	}
	pct, _ := completed.Mul(decimal.NewFromInt(100)).Div(run).Round(1).Float64()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// midnight pins a timestamp to its calendar date at 00:00 UTC, matching
// how the source dates parse.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
