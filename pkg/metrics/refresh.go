package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RefreshMetrics records the outcome of enrichment pipeline passes.
type RefreshMetrics struct {
	duration   prometheus.Histogram
	success    prometheus.Counter
	failure    prometheus.Counter
	sourceRows *prometheus.GaugeVec
	lineCount  prometheus.Gauge
	lastRun    prometheus.Gauge
}

// NewRefreshMetrics registers the refresh metrics on the provided registerer.
func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	if reg == nil {
		return &RefreshMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_refresh_duration_seconds",
		Help:    "Duration of dispatch refresh passes in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_refresh_success_total",
		Help: "Successful refresh passes.",
	})
	failure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_refresh_failure_total",
		Help: "Failed refresh passes.",
	})
	sourceRows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dispatch_source_rows",
		Help: "Rows loaded from each source on the last refresh.",
	}, []string{"source"})
	lineCount := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_enriched_lines",
		Help: "Enriched order lines in the current snapshot.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_last_refresh_timestamp_seconds",
		Help: "Unix time of the last successful refresh.",
	})
	reg.MustRegister(duration, success, failure, sourceRows, lineCount, lastRun)
	return &RefreshMetrics{
		duration:   duration,
		success:    success,
		failure:    failure,
		sourceRows: sourceRows,
		lineCount:  lineCount,
		lastRun:    lastRun,
	}
}

// ObserveDuration records how long a refresh pass took.
func (m *RefreshMetrics) ObserveDuration(duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(duration.Seconds())
}

// IncSuccess increments the successful pass counter.
func (m *RefreshMetrics) IncSuccess() {
	if m == nil || m.success == nil {
		return
	}
	m.success.Inc()
}

// IncFailure increments the failed pass counter.
func (m *RefreshMetrics) IncFailure() {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.Inc()
}

// SetSourceRows records the row count loaded from one source.
func (m *RefreshMetrics) SetSourceRows(source string, rows int) {
	if m == nil || m.sourceRows == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.sourceRows.WithLabelValues(source).Set(float64(rows))
}

// SetLineCount records the enriched line count of the current snapshot.
func (m *RefreshMetrics) SetLineCount(lines int) {
	if m == nil || m.lineCount == nil {
		return
	}
	m.lineCount.Set(float64(lines))
}

// SetLastRefresh records when the current snapshot was produced.
func (m *RefreshMetrics) SetLastRefresh(at time.Time) {
	if m == nil || m.lastRun == nil {
		return
	}
	m.lastRun.Set(float64(at.Unix()))
}
