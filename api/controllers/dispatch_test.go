package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
)

type testDispatchService struct {
	refreshFn func(ctx context.Context, force bool) (*dispatch.Stats, error)
	linesFn   func(ctx context.Context, params dispatch.ListParams) (*dispatch.ListResult, error)
	statsFn   func(ctx context.Context) (*dispatch.Stats, error)
	ganttFn   func(ctx context.Context, group enums.GanttGroup) ([]dispatch.GanttRow, error)
}

func (s *testDispatchService) Refresh(ctx context.Context, force bool) (*dispatch.Stats, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, force)
	}
	return &dispatch.Stats{}, nil
}

func (s *testDispatchService) Lines(ctx context.Context, params dispatch.ListParams) (*dispatch.ListResult, error) {
	if s.linesFn != nil {
		return s.linesFn(ctx, params)
	}
	return &dispatch.ListResult{}, nil
}

func (s *testDispatchService) Stats(ctx context.Context) (*dispatch.Stats, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx)
	}
	return &dispatch.Stats{}, nil
}

func (s *testDispatchService) Gantt(ctx context.Context, group enums.GanttGroup) ([]dispatch.GanttRow, error) {
	if s.ganttFn != nil {
		return s.ganttFn(ctx, group)
	}
	return nil, nil
}

func (s *testDispatchService) Snapshot() *dispatch.Snapshot {
	return nil
}

func TestDispatchLinesParsesFilters(t *testing.T) {
	var got dispatch.ListParams
	svc := &testDispatchService{
		linesFn: func(ctx context.Context, params dispatch.ListParams) (*dispatch.ListResult, error) {
			got = params
			return &dispatch.ListResult{}, nil
		},
	}

	url := "/api/v1/dispatch/lines?status=in_work&esi=only&customer=Acme%20Aero&past_due_only=true&shortage_only=false&can_ship_only=true"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp := httptest.NewRecorder()

	DispatchLines(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.Status != enums.LineStatusInWork {
		t.Fatalf("unexpected status %q", got.Status)
	}
	if got.ESI != enums.ESIFilterOnly {
		t.Fatalf("unexpected esi filter %q", got.ESI)
	}
	if got.Customer != "Acme Aero" {
		t.Fatalf("unexpected customer %q", got.Customer)
	}
	if !got.PastDueOnly || got.ShortageOnly || !got.CanShipOnly {
		t.Fatalf("unexpected flags %+v", got)
	}
}

func TestDispatchLinesDefaultsToUnfiltered(t *testing.T) {
	var got dispatch.ListParams
	svc := &testDispatchService{
		linesFn: func(ctx context.Context, params dispatch.ListParams) (*dispatch.ListResult, error) {
			got = params
			return &dispatch.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dispatch/lines", nil)
	resp := httptest.NewRecorder()

	DispatchLines(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.Status != "" {
		t.Fatalf("expected empty status, got %q", got.Status)
	}
	if got.ESI != enums.ESIFilterAll {
		t.Fatalf("expected esi all, got %q", got.ESI)
	}
}

func TestDispatchLinesRejectsBadStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dispatch/lines?status=bogus", nil)
	resp := httptest.NewRecorder()

	DispatchLines(&testDispatchService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDispatchLinesRejectsBadBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dispatch/lines?past_due_only=banana", nil)
	resp := httptest.NewRecorder()

	DispatchLines(&testDispatchService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDispatchStatsMapsMissingSnapshot(t *testing.T) {
	svc := &testDispatchService{
		statsFn: func(ctx context.Context) (*dispatch.Stats, error) {
			return nil, pkgerrors.New(pkgerrors.CodeSourceUnavailable, "dispatch snapshot not ready, run a refresh")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dispatch/stats", nil)
	resp := httptest.NewRecorder()

	DispatchStats(svc, testLogger())(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestCacheStatusRequiresManager(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/status", nil)
	resp := httptest.NewRecorder()

	CacheStatus(nil, testLogger())(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
