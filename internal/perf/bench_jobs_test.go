package perf

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/halocare/halocare-admin/internal/dashboard"
	jobmetrics "github.com/halocare/halocare-admin/internal/jobs"
	"github.com/halocare/halocare-admin/jobs"
)

type sleepyRefresher struct {
	delay time.Duration
	fail  func(n int) bool
	calls int
}

func (s *sleepyRefresher) Refresh(ctx context.Context) (dashboard.Summary, error) {
	s.calls++
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return dashboard.Summary{}, ctx.Err()
	}
	if s.fail != nil && s.fail(s.calls) {
		return dashboard.Summary{}, errors.New("backend timeout")
	}
	return dashboard.Summary{}, nil
}

type outcomeCounter struct{ ok, failed int }

func (o *outcomeCounter) ObserveJob(_ string, err error) {
	if err != nil {
		o.failed++
		return
	}
	o.ok++
}

func TestDashboardWarmupThroughputAndReliability(t *testing.T) {
	if testing.Short() {
		t.Skip("job timing skipped in short mode")
	}
	reg := prometheus.NewRegistry()
	outcomes := &outcomeCounter{}
	refresher := &sleepyRefresher{delay: 10 * time.Millisecond, fail: func(n int) bool { return n%20 == 0 }}
	job := jobs.NewDashboardWarmupJob(refresher, nil, jobmetrics.NewMetrics(reg), outcomes)
	task, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{Reason: "perf"})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}

	for range 40 {
		_ = job.Handle(context.Background(), asynq.NewTask(task.Type(), task.Payload()))
	}

	if outcomes.ok+outcomes.failed != 40 {
		t.Fatalf("expected 40 outcomes, got %d", outcomes.ok+outcomes.failed)
	}
	if ratio := float64(outcomes.ok) / 40; ratio < 0.9 {
		t.Fatalf("warmup success ratio too low: %f", ratio)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	labels := map[string]string{"job": jobs.TaskDashboardWarmup}
	if mean := histogramMean(t, families, "halocare_job_duration_seconds", labels); mean > 0.5 {
		t.Fatalf("warmup duration above budget: %f", mean)
	}
	if last := metricValue(t, families, "halocare_job_last_success_timestamp_seconds", labels); last <= 0 {
		t.Fatalf("last success not recorded: %f", last)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				if fam.GetType() == dto.MetricType_COUNTER {
					return metric.GetCounter().GetValue()
				}
				if fam.GetType() == dto.MetricType_GAUGE {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func histogramMean(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				hist := metric.GetHistogram()
				if hist == nil || hist.GetSampleCount() == 0 {
					t.Fatalf("histogram %s missing samples", name)
				}
				return hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range metric.GetLabel() {
		if val, ok := labels[lp.GetName()]; ok {
			if lp.GetValue() != val {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}
