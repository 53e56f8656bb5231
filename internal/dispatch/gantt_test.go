package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/morelandmachine/dispatch-backend/internal/enrich"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
)

var ganttToday = time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)

func ganttTimePtr(t time.Time) *time.Time {
	return &t
}

func TestGanttRow_DateFallbacks(t *testing.T) {
	orderDate := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	shipBy := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	needBy := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		line      enrich.Line
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"dated line",
			enrich.Line{OrderLine: sources.OrderLine{OrderDate: ganttTimePtr(orderDate), ShipBy: ganttTimePtr(shipBy)}},
			orderDate,
			shipBy,
		},
		{
			"undated line",
			enrich.Line{},
			ganttToday.AddDate(0, 0, -7),
			ganttToday.AddDate(0, 0, 30),
		},
		{
			"need-by fallback",
			enrich.Line{OrderLine: sources.OrderLine{OrderDate: ganttTimePtr(orderDate), NeedBy: ganttTimePtr(needBy)}},
			orderDate,
			needBy,
		},
		{
			"inverted dates",
			enrich.Line{OrderLine: sources.OrderLine{
				OrderDate: ganttTimePtr(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
				ShipBy:    ganttTimePtr(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
			}},
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := ganttRow(tc.line, enums.GanttGroupShipWeek, ganttToday)
			if !row.Start.Equal(tc.wantStart) {
				t.Fatalf("start = %v, want %v", row.Start, tc.wantStart)
			}
			if !row.End.Equal(tc.wantEnd) {
				t.Fatalf("end = %v, want %v", row.End, tc.wantEnd)
			}
		})
	}
}

func TestGanttRow_GroupKeys(t *testing.T) {
	shipBy := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) // ISO week 4
	line := enrich.Line{
		OrderLine: sources.OrderLine{Customer: "Acme Aero", ShipBy: ganttTimePtr(shipBy)},
		Job:       "52707",
		Status:    enums.LineStatusInWork,
	}

	if got := ganttRow(line, enums.GanttGroupShipWeek, ganttToday).Group; got != "2025-W04" {
		t.Fatalf("ship week group = %q, want 2025-W04", got)
	}
	if got := ganttRow(line, enums.GanttGroupCustomer, ganttToday).Group; got != "Acme Aero" {
		t.Fatalf("customer group = %q", got)
	}
	if got := ganttRow(line, enums.GanttGroupStatus, ganttToday).Group; got != "in_work" {
		t.Fatalf("status group = %q", got)
	}

	line.Customer = ""
	if got := ganttRow(line, enums.GanttGroupCustomer, ganttToday).Group; got != unknownCustomerGroup {
		t.Fatalf("blank customer group = %q, want %q", got, unknownCustomerGroup)
	}
}

func TestGanttRow_ProgressClamped(t *testing.T) {
	cases := []struct {
		name      string
		completed int64
		ordered   int64
		want      float64
	}{
		{"zero order quantity", 10, 0, 0},
		{"half done", 25, 50, 50},
		{"over-complete clamps", 80, 50, 100},
		{"rounded to one decimal", 1, 3, 33.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := progressPct(decimal.NewFromInt(tc.completed), decimal.NewFromInt(tc.ordered))
			if got != tc.want {
				t.Fatalf("progress = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestService_GanttDefaultsToShipWeek(t *testing.T) {
	svc := snapshotService(filterLines())

	rows, err := svc.Gantt(context.Background(), "")
	if err != nil {
		t.Fatalf("gantt: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if len(row.Group) != 8 || row.Group[4:6] != "-W" {
			t.Fatalf("group %q is not a year-week key", row.Group)
		}
	}
}
