package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/morelandmachine/dispatch-backend/internal/enrich"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
)

const (
	ganttStartFallbackDays = 7
	ganttEndFallbackDays   = 30
	unknownCustomerGroup   = "Unknown Customer"
)

// Gantt converts the snapshot into schedule bars. Missing dates get
// deterministic fallbacks around today so every line still renders a bar.
func (s *service) Gantt(ctx context.Context, group enums.GanttGroup) ([]GanttRow, error) {
	snap := s.current()
	if snap == nil {
		return nil, errNoSnapshot()
	}
	if group == "" {
		group = enums.GanttGroupShipWeek
	}

	today := midnight(s.now())
	rows := make([]GanttRow, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		rows = append(rows, ganttRow(line, group, today))
	}
	return rows, nil
}

func ganttRow(line enrich.Line, group enums.GanttGroup, today time.Time) GanttRow {
	start := today.AddDate(0, 0, -ganttStartFallbackDays)
	if line.OrderDate != nil {
		start = *line.OrderDate
	}

	end := today.AddDate(0, 0, ganttEndFallbackDays)
	switch {
	case line.ShipBy != nil:
		end = *line.ShipBy
	case line.NeedBy != nil:
		end = *line.NeedBy
	}
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	return GanttRow{
		Job:       line.Job,
		Label:     fmt.Sprintf("%s (%s)", line.Job, line.Key()),
		Part:      line.Part,
		Customer:  line.Customer,
		Group:     groupKey(line, group, end),
		Status:    line.Status,
		Start:     start,
		End:       end,
		Progress:  progressPct(line.CompletedQty, line.OrderQty),
		IsPastDue: line.IsPastDue,
	}
}

func groupKey(line enrich.Line, group enums.GanttGroup, end time.Time) string {
	switch group {
	case enums.GanttGroupCustomer:
		if line.Customer == "" {
			return unknownCustomerGroup
		}
		return line.Customer
	case enums.GanttGroupStatus:
		return line.Status.String()
	default:
		year, week := end.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
}

// progressPct is completed over ordered as a percentage, rounded to one
// decimal and clamped to [0, 100]. A non-positive order quantity yields 0.
func progressPct(completed, ordered decimal.Decimal) float64 {
	if !ordered.IsPositive() {
		return 0
	}
	pct, _ := completed.Mul(decimal.NewFromInt(100)).Div(ordered).Round(1).Float64()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
