// Package summary condenses the dispatch snapshot into the daily digest:
// headline metrics, leveled alerts with suggested actions, and the worst
// offenders lists the morning meeting walks through.
package summary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	"github.com/morelandmachine/dispatch-backend/internal/enrich"
	"github.com/morelandmachine/dispatch-backend/internal/resolve"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
)

const (
	dueWindowDays = 7
	topLineCount  = 10
)

// Metrics are the digest headline counts. Status counts are per order
// line; DistinctJobs counts real jobs once no matter how many lines share
// them.
type Metrics struct {
	TotalLines       int                      `json:"total_lines"`
	DistinctJobs     int                      `json:"distinct_jobs"`
	ByStatus         map[enums.LineStatus]int `json:"by_status"`
	PastDue          int                      `json:"past_due"`
	MaterialShortage int                      `json:"material_shortage"`
	CanShip          int                      `json:"can_ship"`
	ESI              int                      `json:"esi"`
	DueToday         int                      `json:"due_today"`
	DueThisWeek      int                      `json:"due_this_week"`
}

// Alert is one leveled digest callout with its suggested action.
type Alert struct {
	Level   enums.AlertLevel `json:"level"`
	Message string           `json:"message"`
	Action  string           `json:"action"`
}

// Digest is the daily summary payload.
type Digest struct {
	Metrics      Metrics       `json:"metrics"`
	Alerts       []Alert       `json:"alerts"`
	TopPastDue   []enrich.Line `json:"top_past_due"`
	TopShortages []enrich.Line `json:"top_shortages"`
	RefreshedAt  time.Time     `json:"refreshed_at"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

type snapshotSource interface {
	Snapshot() *dispatch.Snapshot
}

// Service exposes the summary digest.
type Service interface {
	Digest(ctx context.Context) (*Digest, error)
}

// Params configure the summary service.
type Params struct {
	Dispatch snapshotSource
}

type service struct {
	dispatch snapshotSource
	now      func() time.Time
}

// NewService validates the dependencies and returns a summary service.
func NewService(params Params) (Service, error) {
	if params.Dispatch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "summary service requires a dispatch snapshot source")
	}
	return &service{
		dispatch: params.Dispatch,
		now:      time.Now,
	}, nil
}

// Digest builds the daily summary from the current snapshot.
func (s *service) Digest(ctx context.Context) (*Digest, error) {
	snap := s.dispatch.Snapshot()
	if snap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeSourceUnavailable, "dispatch snapshot not ready, run a refresh")
	}

	now := s.now()
	today := midnight(now)
	weekEnd := today.AddDate(0, 0, dueWindowDays)

	metrics := Metrics{
		TotalLines: len(snap.Lines),
		ByStatus:   map[enums.LineStatus]int{},
	}
	jobs := map[string]struct{}{}
	var pastDue, shortages []enrich.Line

	for _, line := range snap.Lines {
		metrics.ByStatus[line.Status]++
		if resolve.Resolved(line.Job) {
			jobs[line.Job] = struct{}{}
		}
		if line.IsPastDue {
			metrics.PastDue++
			pastDue = append(pastDue, line)
		}
		if line.MaterialShort {
			metrics.MaterialShortage++
			shortages = append(shortages, line)
		}
		if line.CanShip {
			metrics.CanShip++
		}
		if line.IsESI {
			metrics.ESI++
		}
		if line.ShipBy != nil {
			ship := midnight(*line.ShipBy)
			if ship.Equal(today) {
				metrics.DueToday++
			}
			if !ship.Before(today) && !ship.After(weekEnd) {
				metrics.DueThisWeek++
			}
		}
	}
	metrics.DistinctJobs = len(jobs)

	// Past-due lines carry a ship-by date by construction; oldest first.
	sort.SliceStable(pastDue, func(i, j int) bool {
		return pastDue[i].ShipBy.Before(*pastDue[j].ShipBy)
	})

	return &Digest{
		Metrics:      metrics,
		Alerts:       alertsFor(metrics),
		TopPastDue:   top(pastDue),
		TopShortages: top(shortages),
		RefreshedAt:  snap.RefreshedAt,
		GeneratedAt:  now,
	}, nil
}

// alertsFor emits the digest callouts in severity order. A zero count
// suppresses its alert.
func alertsFor(m Metrics) []Alert {
	alerts := make([]Alert, 0, 7)
	if m.PastDue > 0 {
		alerts = append(alerts, Alert{
			Level:   enums.AlertLevelCritical,
			Message: fmt.Sprintf("%d orders are PAST DUE", m.PastDue),
			Action:  "Review and expedite immediately",
		})
	}
	if m.MaterialShortage > 0 {
		alerts = append(alerts, Alert{
			Level:   enums.AlertLevelCritical,
			Message: fmt.Sprintf("%d jobs have MATERIAL SHORTAGES", m.MaterialShortage),
			Action:  "Contact purchasing for status",
		})
	}
	if noJob := m.ByStatus[enums.LineStatusNoJob]; noJob > 0 {
		alerts = append(alerts, Alert{
			Level:   enums.AlertLevelWarning,
			Message: fmt.Sprintf("%d order lines have NO JOB assigned", noJob),
			Action:  "Create jobs or assign stock jobs",
		})
	}
	if unengineered := m.ByStatus[enums.LineStatusUnengineered]; unengineered > 0 {
		alerts = append(alerts, Alert{
			Level:   enums.AlertLevelWarning,
			Message: fmt.Sprintf("%d jobs are UNENGINEERED", unengineered),
			Action:  "Follow up with engineering",
		})
	}
	if m.DueToday > 0 {
		alerts = append(alerts, Alert{
			Level:   enums.AlertLevelWarning,
			Message: fmt.Sprintf("%d orders due TODAY", m.DueToday),
			Action:  "Verify shipping readiness",
		})
	}
	if m.CanShip > 0 {
		alerts = append(alerts, Alert{
			Level:   enums.AlertLevelInfo,
			Message: fmt.Sprintf("%d orders CAN SHIP from inventory", m.CanShip),
			Action:  "Coordinate with shipping",
		})
	}
	if m.DueThisWeek > 0 {
		alerts = append(alerts, Alert{
			Level:   enums.AlertLevelInfo,
			Message: fmt.Sprintf("%d orders due this week", m.DueThisWeek),
			Action:  "Plan accordingly",
		})
	}
	return alerts
}

func top(lines []enrich.Line) []enrich.Line {
	if len(lines) > topLineCount {
		return lines[:topLineCount]
	}
	return lines
}

// midnight pins a timestamp to its calendar date at 00:00 UTC, matching
// how the source dates parse.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
