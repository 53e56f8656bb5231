package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRefreshMetricsExportsGaugesAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRefreshMetrics(reg)

	m.ObserveDuration(120 * time.Millisecond)
	m.IncSuccess()
	m.SetSourceRows("order_lines", 42)
	m.SetLineCount(42)
	m.SetLastRefresh(time.Unix(1700000000, 0))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := gaugeValue(t, mfs, "dispatch_source_rows", "source", "order_lines"); got != 42 {
		t.Fatalf("expected source rows 42, got %f", got)
	}
	if got := gaugeValue(t, mfs, "dispatch_enriched_lines", "", ""); got != 42 {
		t.Fatalf("expected line count 42, got %f", got)
	}
	if got := gaugeValue(t, mfs, "dispatch_last_refresh_timestamp_seconds", "", ""); got != 1700000000 {
		t.Fatalf("expected last refresh stamp, got %f", got)
	}

	mf := findMetricFamily(mfs, "dispatch_refresh_duration_seconds")
	if mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleSum() <= 0 {
		t.Fatalf("expected duration sum > 0")
	}
}

func TestRefreshMetricsNilSafe(t *testing.T) {
	var m *RefreshMetrics
	m.ObserveDuration(time.Second)
	m.IncSuccess()
	m.IncFailure()
	m.SetSourceRows("x", 1)
	m.SetLineCount(1)
	m.SetLastRefresh(time.Now())

	empty := NewRefreshMetrics(nil)
	empty.IncSuccess()
}

func TestWorkerJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkerJobMetrics(reg)
	job := "daily-summary"
	m.ObserveDuration(job, 250*time.Millisecond)
	m.IncSuccess(job)
	m.IncFailure(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "worker_job_success", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "worker_job_failure", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "worker_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func gaugeValue(t *testing.T, mfs []*dto.MetricFamily, name, label, value string) float64 {
	t.Helper()
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		t.Fatalf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if label == "" || matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %q missing label %s=%s", name, label, value)
	return 0
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
