package worker

import (
	"context"
	"time"

	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
)

// RefreshJob keeps the dispatch snapshot current. It never forces the
// cache, so a tick inside the staleness throttle is nearly free.
type RefreshJob struct {
	dispatch dispatch.Service
	interval time.Duration
}

// RefreshJobParams configure the refresh job.
type RefreshJobParams struct {
	Dispatch dispatch.Service
	Interval time.Duration
}

// NewRefreshJob builds the periodic snapshot refresh job.
func NewRefreshJob(params RefreshJobParams) (*RefreshJob, error) {
	if params.Dispatch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "refresh job requires the dispatch service")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &RefreshJob{dispatch: params.Dispatch, interval: interval}, nil
}

// Name implements Job.
func (j *RefreshJob) Name() string {
	return "dispatch_refresh"
}

// Interval implements Job.
func (j *RefreshJob) Interval() time.Duration {
	return j.interval
}

// Run refreshes the snapshot.
func (j *RefreshJob) Run(ctx context.Context) error {
	_, err := j.dispatch.Refresh(ctx, false)
	return err
}
