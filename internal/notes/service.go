// Package notes owns the production notes log, the one store this service
// writes rather than mirrors. Notes annotate job numbers but are kept even
// when the job later disappears from the ERP exports.
package notes

import (
	"context"
	"strings"

	"github.com/morelandmachine/dispatch-backend/pkg/db"
	"github.com/morelandmachine/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
	"github.com/morelandmachine/dispatch-backend/pkg/pagination"
)

const defaultAuthor = "User"

// AddParams carry one new note. CreatedBy falls back to the shared
// dashboard author when blank.
type AddParams struct {
	JobNumber string
	NoteText  string
	CreatedBy string
}

// ListResult wraps returned notes and the cursor for the next page.
type ListResult struct {
	Notes  []models.Note `json:"notes"`
	Cursor string        `json:"cursor"`
}

// Service defines the production note operations.
type Service interface {
	Add(ctx context.Context, params AddParams) (*models.Note, error)
	ListByJob(ctx context.Context, jobNumber string) ([]models.Note, error)
	ListAll(ctx context.Context, params pagination.Params) (*ListResult, error)
	Delete(ctx context.Context, id int64) error
	CountByJob(ctx context.Context, jobNumber string) (int64, error)
}

// Params configure the notes service.
type Params struct {
	Logger *logger.Logger
	Repo   Repository
}

type service struct {
	logg *logger.Logger
	repo Repository
}

// NewService validates the dependencies and returns a notes service.
func NewService(params Params) (Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notes service requires a logger")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notes service requires a repository")
	}
	return &service{logg: params.Logger, repo: params.Repo}, nil
}

// Add stores one note after trimming. Job and text are required.
func (s *service) Add(ctx context.Context, params AddParams) (*models.Note, error) {
	job := strings.TrimSpace(params.JobNumber)
	if job == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job number required")
	}
	text := strings.TrimSpace(params.NoteText)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note text required")
	}
	author := strings.TrimSpace(params.CreatedBy)
	if author == "" {
		author = defaultAuthor
	}

	note := &models.Note{JobNumber: job, NoteText: text, CreatedBy: author}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, wrapStoreErr(err, "creating production note")
	}
	s.logg.Info(s.logg.WithJob(ctx, job), "production note added")
	return note, nil
}

// ListByJob returns a job's notes, newest first.
func (s *service) ListByJob(ctx context.Context, jobNumber string) ([]models.Note, error) {
	job := strings.TrimSpace(jobNumber)
	if job == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job number required")
	}
	notes, err := s.repo.ListByJob(ctx, job)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing job notes")
	}
	return notes, nil
}

// ListAll pages through every note, newest first.
func (s *service) ListAll(ctx context.Context, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	notes, next, err := s.repo.ListAll(ctx, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing production notes")
	}

	result := &ListResult{Notes: notes}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

// Delete removes one note by id.
func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "note id required")
	}
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return wrapStoreErr(err, "deleting production note")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "note not found")
	}
	return nil
}

// wrapStoreErr names the two sqlite failure modes a write can hit before
// falling back to the generic persistence wrap.
func wrapStoreErr(err error, msg string) error {
	switch {
	case db.IsBusy(err):
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "notes store busy")
	case db.IsReadOnly(err):
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "notes store is read-only")
	default:
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, msg)
	}
}

// CountByJob returns the number of notes on a job for the dashboard badge.
func (s *service) CountByJob(ctx context.Context, jobNumber string) (int64, error) {
	job := strings.TrimSpace(jobNumber)
	if job == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "job number required")
	}
	count, err := s.repo.CountByJob(ctx, job)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "counting job notes")
	}
	return count, nil
}
