// Package enrich builds dispatch rows: every order line is resolved to a
// job, joined against the job detail, labor, inventory, shortage, customer
// and comment tables, and run through the line status machine. The pass is
// shape-preserving: one output row per input line, no filtering.
package enrich

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/morelandmachine/dispatch-backend/internal/resolve"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
)

const (
	productionLaborType = "P"
	esiJobPrefix        = "ESI"
)

// Line is one enriched dispatch row. The source order-line fields are
// embedded; everything else is joined or computed during a refresh pass.
type Line struct {
	sources.OrderLine

	Job               string           `json:"job"`
	Engineered        enums.JobFlag    `json:"engineered"`
	Released          enums.JobFlag    `json:"released"`
	RunQty            decimal.Decimal  `json:"run_qty"`
	CompletedQty      decimal.Decimal  `json:"completed_qty"`
	RemainingQty      decimal.Decimal  `json:"remaining_qty"`
	Status            enums.LineStatus `json:"status"`
	IsESI             bool             `json:"is_esi"`
	IsPastDue         bool             `json:"is_past_due"`
	MaterialShort     bool             `json:"material_short"`
	QtyOnHand         decimal.Decimal  `json:"qty_on_hand"`
	CanShip           bool             `json:"can_ship"`
	JobComment        string           `json:"job_comment,omitempty"`
	PurchasingComment string           `json:"purchasing_comment,omitempty"`
	OperationsComment string           `json:"operations_comment,omitempty"`
	HasComments       bool             `json:"has_comments"`
	LastLaborDate     *time.Time       `json:"last_labor_date,omitempty"`
	LaborHours        decimal.Decimal  `json:"labor_hours"`
}

// Inputs carries every table one enrichment pass consumes. Indexes must be
// non-nil; the remaining maps may be nil or empty when a source was
// unreadable.
type Inputs struct {
	Lines     []sources.OrderLine
	Details   map[string]JobDetail
	Indexes   *resolve.Indexes
	Labor     map[string]sources.LaborTotals
	Customers map[string]struct{}
	ShortJobs map[string]struct{}
	Inventory map[string]decimal.Decimal
	Comments  map[string]sources.CommentPair
	Now       time.Time
}

// Enrich produces exactly one output row per input order line.
func Enrich(in Inputs) []Line {
	out := make([]Line, 0, len(in.Lines))
	for _, src := range in.Lines {
		job := in.Indexes.Resolve(src.JobNumber, src.Order, src.Part)
		detail, known := in.Details[job]

		line := Line{
			OrderLine: src,
			Job:       job,
			QtyOnHand: in.Inventory[src.Part],
		}
		switch {
		case !resolve.Resolved(job):
			line.Engineered = enums.JobFlagNoJob
			line.Released = enums.JobFlagNoJob
		case !known:
			line.Engineered = enums.JobFlagUnknown
			line.Released = enums.JobFlagUnknown
		default:
			line.Engineered = enums.FlagFromBool(detail.Engineered)
			line.Released = enums.FlagFromBool(detail.Released)
			line.RunQty = detail.RunQty
			line.CompletedQty = detail.CompletedQty
			line.JobComment = detail.Comment
		}

		line.RemainingQty = remaining(src.OrderQty, line.CompletedQty)
		line.Status = statusFor(line, detail)
		line.IsESI = isESI(job, src.Customer, in.Customers)
		line.IsPastDue = src.ShipBy != nil && src.ShipBy.Before(in.Now)
		_, line.MaterialShort = in.ShortJobs[job]
		line.CanShip = len(in.Inventory) > 0 && line.QtyOnHand.GreaterThanOrEqual(line.RemainingQty)

		if pair, ok := in.Comments[src.Key()]; ok {
			line.PurchasingComment = pair.Purchasing
			line.OperationsComment = pair.Operations
			line.HasComments = pair.Present()
		}
		if labor, ok := in.Labor[job]; ok {
			line.LastLaborDate = labor.LastLaborDate
			line.LaborHours = labor.TotalHours
		}

		out = append(out, line)
	}
	return out
}

// statusFor applies the line state machine in strict priority order. The
// detail row is the zero value for resolved-but-unknown jobs, which the
// engineered flag check already sends to unengineered.
func statusFor(line Line, detail JobDetail) enums.LineStatus {
	switch {
	case !resolve.Resolved(line.Job):
		return enums.LineStatusNoJob
	case line.Engineered != enums.JobFlagYes:
		return enums.LineStatusUnengineered
	case detail.LaborType == productionLaborType || detail.HasProduction || line.CompletedQty.IsPositive():
		return enums.LineStatusInWork
	default:
		return enums.LineStatusNotStarted
	}
}

func remaining(ordered, completed decimal.Decimal) decimal.Decimal {
	rem := ordered.Sub(completed)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

func isESI(job, customer string, esi map[string]struct{}) bool {
	if strings.HasPrefix(strings.ToUpper(job), esiJobPrefix) {
		return true
	}
	_, ok := esi[strings.TrimSpace(customer)]
	return ok
}
