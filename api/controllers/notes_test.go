package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/morelandmachine/dispatch-backend/internal/notes"
	"github.com/morelandmachine/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
	"github.com/morelandmachine/dispatch-backend/pkg/pagination"
)

type testNotesService struct {
	addFn        func(ctx context.Context, params notes.AddParams) (*models.Note, error)
	listByJobFn  func(ctx context.Context, jobNumber string) ([]models.Note, error)
	listAllFn    func(ctx context.Context, params pagination.Params) (*notes.ListResult, error)
	deleteFn     func(ctx context.Context, id int64) error
	countByJobFn func(ctx context.Context, jobNumber string) (int64, error)
}

func (s *testNotesService) Add(ctx context.Context, params notes.AddParams) (*models.Note, error) {
	if s.addFn != nil {
		return s.addFn(ctx, params)
	}
	return &models.Note{ID: 1}, nil
}

func (s *testNotesService) ListByJob(ctx context.Context, jobNumber string) ([]models.Note, error) {
	if s.listByJobFn != nil {
		return s.listByJobFn(ctx, jobNumber)
	}
	return nil, nil
}

func (s *testNotesService) ListAll(ctx context.Context, params pagination.Params) (*notes.ListResult, error) {
	if s.listAllFn != nil {
		return s.listAllFn(ctx, params)
	}
	return &notes.ListResult{}, nil
}

func (s *testNotesService) Delete(ctx context.Context, id int64) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testNotesService) CountByJob(ctx context.Context, jobNumber string) (int64, error) {
	if s.countByJobFn != nil {
		return s.countByJobFn(ctx, jobNumber)
	}
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestJobNotesAddCreatesNote(t *testing.T) {
	var got notes.AddParams
	svc := &testNotesService{
		addFn: func(ctx context.Context, params notes.AddParams) (*models.Note, error) {
			got = params
			return &models.Note{ID: 7, JobNumber: params.JobNumber, NoteText: params.NoteText, CreatedBy: params.CreatedBy}, nil
		},
	}

	body := `{"note_text":"material staged","created_by":"rgonzalez"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/52707/notes", strings.NewReader(body))
	req = addRouteParam(req, "jobNumber", "52707")
	resp := httptest.NewRecorder()

	JobNotesAdd(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if got.JobNumber != "52707" {
		t.Fatalf("unexpected job %q", got.JobNumber)
	}
	if got.NoteText != "material staged" {
		t.Fatalf("unexpected text %q", got.NoteText)
	}
	if got.CreatedBy != "rgonzalez" {
		t.Fatalf("unexpected author %q", got.CreatedBy)
	}

	var envelope struct {
		Data models.Note `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.ID != 7 {
		t.Fatalf("expected created note in payload, got %+v", envelope.Data)
	}
}

func TestJobNotesAddCapsAuthorLength(t *testing.T) {
	var got notes.AddParams
	svc := &testNotesService{
		addFn: func(ctx context.Context, params notes.AddParams) (*models.Note, error) {
			got = params
			return &models.Note{ID: 1}, nil
		},
	}

	author := strings.Repeat("x", maxAuthorLen+20)
	body := `{"note_text":"ok","created_by":"` + author + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/52707/notes", strings.NewReader(body))
	req = addRouteParam(req, "jobNumber", "52707")
	resp := httptest.NewRecorder()

	JobNotesAdd(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(got.CreatedBy) != maxAuthorLen {
		t.Fatalf("expected author capped at %d chars, got %d", maxAuthorLen, len(got.CreatedBy))
	}
}

func TestJobNotesAddRejectsMissingText(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/52707/notes", strings.NewReader(`{"created_by":"x"}`))
	req = addRouteParam(req, "jobNumber", "52707")
	resp := httptest.NewRecorder()

	JobNotesAdd(&testNotesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestJobNotesAddRejectsUnknownField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/52707/notes", strings.NewReader(`{"note_text":"x","author":"y"}`))
	req = addRouteParam(req, "jobNumber", "52707")
	resp := httptest.NewRecorder()

	JobNotesAdd(&testNotesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestJobNotesListRequiresJobNumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs//notes", nil)
	req = addRouteParam(req, "jobNumber", " ")
	resp := httptest.NewRecorder()

	JobNotesList(&testNotesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestNoteDeleteMapsNotFound(t *testing.T) {
	svc := &testNotesService{
		deleteFn: func(ctx context.Context, id int64) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "note not found")
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notes/99", nil)
	req = addRouteParam(req, "noteID", "99")
	resp := httptest.NewRecorder()

	NoteDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestNotesListAllValidatesLimit(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{name: "non numeric", query: "limit=abc"},
		{name: "out of range", query: "limit=500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/notes?"+tc.query, nil)
			resp := httptest.NewRecorder()

			NotesListAll(&testNotesService{}, testLogger())(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
		})
	}
}

func TestNotesListAllForwardsParams(t *testing.T) {
	var got pagination.Params
	svc := &testNotesService{
		listAllFn: func(ctx context.Context, params pagination.Params) (*notes.ListResult, error) {
			got = params
			return &notes.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notes?limit=10&cursor=abc123", nil)
	resp := httptest.NewRecorder()

	NotesListAll(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.Limit != 10 {
		t.Fatalf("expected limit 10 got %d", got.Limit)
	}
	if got.Cursor != "abc123" {
		t.Fatalf("expected cursor forwarded, got %q", got.Cursor)
	}
}

func TestJobNotesCountPayload(t *testing.T) {
	svc := &testNotesService{
		countByJobFn: func(ctx context.Context, jobNumber string) (int64, error) {
			return 3, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/52707/notes/count", nil)
	req = addRouteParam(req, "jobNumber", "52707")
	resp := httptest.NewRecorder()

	JobNotesCount(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["count"] != 3 {
		t.Fatalf("expected count 3, got %v", envelope.Data)
	}
}
