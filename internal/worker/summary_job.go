package worker

import (
	"context"
	"time"

	"github.com/morelandmachine/dispatch-backend/internal/summary"
	"github.com/morelandmachine/dispatch-backend/pkg/enums"
	pkgerrors "github.com/morelandmachine/dispatch-backend/pkg/errors"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
)

const defaultSummaryInterval = 24 * time.Hour

// SummaryJob writes the daily digest to the log so shifts without dashboard
// access still get the morning numbers.
type SummaryJob struct {
	logg     *logger.Logger
	summary  summary.Service
	interval time.Duration
}

// SummaryJobParams configure the summary job.
type SummaryJobParams struct {
	Logger   *logger.Logger
	Summary  summary.Service
	Interval time.Duration
}

// NewSummaryJob builds the periodic digest job.
func NewSummaryJob(params SummaryJobParams) (*SummaryJob, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "summary job requires a logger")
	}
	if params.Summary == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "summary job requires the summary service")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultSummaryInterval
	}
	return &SummaryJob{logg: params.Logger, summary: params.Summary, interval: interval}, nil
}

// Name implements Job.
func (j *SummaryJob) Name() string {
	return "daily_summary"
}

// Interval implements Job.
func (j *SummaryJob) Interval() time.Duration {
	return j.interval
}

// Run logs the digest headline and every alert.
func (j *SummaryJob) Run(ctx context.Context) error {
	digest, err := j.summary.Digest(ctx)
	if err != nil {
		return err
	}

	ctx = j.logg.WithFields(ctx, map[string]any{
		"total_lines":   digest.Metrics.TotalLines,
		"distinct_jobs": digest.Metrics.DistinctJobs,
		"past_due":      digest.Metrics.PastDue,
		"shortages":     digest.Metrics.MaterialShortage,
		"alerts":        len(digest.Alerts),
	})
	j.logg.Info(ctx, "daily summary digest")

	for _, alert := range digest.Alerts {
		alertCtx := j.logg.WithFields(ctx, map[string]any{
			"level":  alert.Level.String(),
			"action": alert.Action,
		})
		if alert.Level == enums.AlertLevelCritical {
			j.logg.Warn(alertCtx, alert.Message)
			continue
		}
		j.logg.Info(alertCtx, alert.Message)
	}
	return nil
}
