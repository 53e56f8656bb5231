package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/morelandmachine/dispatch-backend/api/responses"
	"github.com/morelandmachine/dispatch-backend/api/validators"
	"github.com/morelandmachine/dispatch-backend/internal/notes"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
	"github.com/morelandmachine/dispatch-backend/pkg/pagination"
)

const maxAuthorLen = 64

type addNotePayload struct {
	NoteText  string `json:"note_text" validate:"required"`
	CreatedBy string `json:"created_by"`
}

// JobNotesList returns every note for one job, newest first.
func JobNotesList(svc notes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notes service unavailable"))
			return
		}

		jobNumber := strings.TrimSpace(chi.URLParam(r, "jobNumber"))
		if jobNumber == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "job number required"))
			return
		}

		items, err := svc.ListByJob(ctx, jobNumber)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// JobNotesAdd stores a note against the job in the URL.
func JobNotesAdd(svc notes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notes service unavailable"))
			return
		}

		jobNumber := strings.TrimSpace(chi.URLParam(r, "jobNumber"))
		if jobNumber == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "job number required"))
			return
		}

		var payload addNotePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		note, err := svc.Add(ctx, notes.AddParams{
			JobNumber: jobNumber,
			NoteText:  payload.NoteText,
			CreatedBy: validators.SanitizeString(payload.CreatedBy, maxAuthorLen),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, note)
	}
}

// JobNotesCount returns how many notes a job carries. The dispatch table
// uses it to badge rows without loading note bodies.
func JobNotesCount(svc notes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notes service unavailable"))
			return
		}

		jobNumber := strings.TrimSpace(chi.URLParam(r, "jobNumber"))
		if jobNumber == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "job number required"))
			return
		}

		count, err := svc.CountByJob(ctx, jobNumber)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"count": count})
	}
}

// NoteDelete removes one note by its numeric id.
func NoteDelete(svc notes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notes service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "noteID"))
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid note id"))
			return
		}

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// NotesListAll returns notes across all jobs, newest first, with cursor
// pagination.
func NotesListAll(svc notes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notes service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp, err := svc.ListAll(ctx, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
