package summary

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	"github.com/morelandmachine/dispatch-backend/internal/enrich"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
)

var testNow = time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC)

type stubDispatch struct {
	snap *dispatch.Snapshot
}

func (s stubDispatch) Snapshot() *dispatch.Snapshot {
	return s.snap
}

func newTestService(t *testing.T, snap *dispatch.Snapshot) Service {
	t.Helper()
	svc, err := NewService(Params{Dispatch: stubDispatch{snap: snap}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	impl := svc.(*service)
	impl.now = func() time.Time { return testNow }
	return impl
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func line(job string, status enums.LineStatus, shipBy *time.Time) enrich.Line {
	return enrich.Line{
		OrderLine: sources.OrderLine{ShipBy: shipBy},
		Job:       job,
		Status:    status,
	}
}

func busySnapshot() *dispatch.Snapshot {
	shortLine := line("52707", enums.LineStatusInWork, timePtr(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)))
	shortLine.IsPastDue = true
	shortLine.MaterialShort = true

	dueToday := line("52707", enums.LineStatusInWork, timePtr(time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)))
	dueToday.CanShip = true

	oldest := line("53110", enums.LineStatusUnengineered, timePtr(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	oldest.IsPastDue = true

	noJob := line("No Job", enums.LineStatusNoJob, nil)
	noJob.IsESI = true

	weekEdge := line("54000", enums.LineStatusNotStarted, timePtr(time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC)))
	beyondWeek := line("55000", enums.LineStatusNotStarted, timePtr(time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)))

	return &dispatch.Snapshot{
		Lines:       []enrich.Line{shortLine, dueToday, oldest, noJob, weekEdge, beyondWeek},
		RefreshedAt: testNow.Add(-time.Hour),
	}
}

func TestService_DigestMetrics(t *testing.T) {
	svc := newTestService(t, busySnapshot())

	digest, err := svc.Digest(context.Background())
	if err != nil {
		t.Fatalf("digest: %v", err)
	}

	m := digest.Metrics
	if m.TotalLines != 6 {
		t.Fatalf("total lines = %d, want 6", m.TotalLines)
	}
	if m.DistinctJobs != 4 {
		t.Fatalf("distinct jobs = %d, want 4 (sentinel excluded, duplicates collapsed)", m.DistinctJobs)
	}
	if m.ByStatus[enums.LineStatusInWork] != 2 || m.ByStatus[enums.LineStatusNoJob] != 1 {
		t.Fatalf("unexpected status counts %v", m.ByStatus)
	}
	if m.PastDue != 2 || m.MaterialShortage != 1 || m.CanShip != 1 || m.ESI != 1 {
		t.Fatalf("unexpected flag counts %+v", m)
	}
	if m.DueToday != 1 {
		t.Fatalf("due today = %d, want 1", m.DueToday)
	}
	if m.DueThisWeek != 2 {
		t.Fatalf("due this week = %d, want 2 (today and today+7 both inside)", m.DueThisWeek)
	}
	if !digest.RefreshedAt.Equal(testNow.Add(-time.Hour)) || !digest.GeneratedAt.Equal(testNow) {
		t.Fatalf("unexpected timestamps %v / %v", digest.RefreshedAt, digest.GeneratedAt)
	}
}

func TestService_DigestAlertsOrdered(t *testing.T) {
	svc := newTestService(t, busySnapshot())

	digest, err := svc.Digest(context.Background())
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if len(digest.Alerts) != 7 {
		t.Fatalf("expected 7 alerts, got %d", len(digest.Alerts))
	}

	wantLevels := []enums.AlertLevel{
		enums.AlertLevelCritical,
		enums.AlertLevelCritical,
		enums.AlertLevelWarning,
		enums.AlertLevelWarning,
		enums.AlertLevelWarning,
		enums.AlertLevelInfo,
		enums.AlertLevelInfo,
	}
	for i, want := range wantLevels {
		if digest.Alerts[i].Level != want {
			t.Fatalf("alert %d level = %q, want %q", i, digest.Alerts[i].Level, want)
		}
	}

	first := digest.Alerts[0]
	if first.Message != "2 orders are PAST DUE" || first.Action != "Review and expedite immediately" {
		t.Fatalf("unexpected lead alert %+v", first)
	}
	if !strings.Contains(digest.Alerts[1].Message, "MATERIAL SHORTAGES") {
		t.Fatalf("second alert must be the shortage callout, got %q", digest.Alerts[1].Message)
	}
	if digest.Alerts[6].Message != "2 orders due this week" {
		t.Fatalf("last alert = %q", digest.Alerts[6].Message)
	}
}

func TestService_DigestQuietDayHasNoAlerts(t *testing.T) {
	snap := &dispatch.Snapshot{
		Lines: []enrich.Line{
			line("52707", enums.LineStatusNotStarted, nil),
		},
		RefreshedAt: testNow,
	}
	svc := newTestService(t, snap)

	digest, err := svc.Digest(context.Background())
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if len(digest.Alerts) != 0 {
		t.Fatalf("quiet snapshot produced alerts: %+v", digest.Alerts)
	}
	if len(digest.TopPastDue) != 0 || len(digest.TopShortages) != 0 {
		t.Fatal("quiet snapshot must have empty offender lists")
	}
}

func TestService_DigestTopPastDueOldestFirstCapped(t *testing.T) {
	snap := &dispatch.Snapshot{RefreshedAt: testNow}
	// Newest first on purpose; the digest must re-order oldest first.
	for day := 21; day >= 10; day-- {
		l := line(fmt.Sprintf("5%04d", day), enums.LineStatusInWork,
			timePtr(time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)))
		l.IsPastDue = true
		snap.Lines = append(snap.Lines, l)
	}
	svc := newTestService(t, snap)

	digest, err := svc.Digest(context.Background())
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if digest.Metrics.PastDue != 12 {
		t.Fatalf("past due = %d, want 12", digest.Metrics.PastDue)
	}
	if len(digest.TopPastDue) != 10 {
		t.Fatalf("top past due capped at %d, want 10", len(digest.TopPastDue))
	}
	if digest.TopPastDue[0].Job != "50010" {
		t.Fatalf("oldest past-due job = %q, want 50010", digest.TopPastDue[0].Job)
	}
	if digest.TopPastDue[9].Job != "50019" {
		t.Fatalf("tenth past-due job = %q, want 50019", digest.TopPastDue[9].Job)
	}
}

func TestService_DigestWithoutSnapshot(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Digest(context.Background())
	if pkgerrors.As(err).Code() != pkgerrors.CodeSourceUnavailable {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}
