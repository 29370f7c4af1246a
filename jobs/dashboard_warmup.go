package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/halocare/halocare-admin/internal/dashboard"
	jobmetrics "github.com/halocare/halocare-admin/internal/jobs"
)

// Refresher rebuilds the dashboard summary cache.
type Refresher interface {
	Refresh(ctx context.Context) (dashboard.Summary, error)
}

// Observer counts job outcomes.
type Observer interface {
	ObserveJob(task string, err error)
}

const warmupTimeout = 45 * time.Second

// DashboardWarmupJob rebuilds the cached dashboard summary.
type DashboardWarmupJob struct {
	Dashboard Refresher
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Observer  Observer
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(refresher Refresher, logger *slog.Logger, metrics *jobmetrics.Metrics, observer Observer) *DashboardWarmupJob {
	return &DashboardWarmupJob{Dashboard: refresher, Logger: logger, Metrics: metrics, Observer: observer}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Reason == "" {
		payload.Reason = "schedule"
	}

	tracker := j.Metrics.Track(TaskDashboardWarmup)
	defer func() {
		err = tracker.End(err)
		if j.Observer != nil {
			j.Observer.ObserveJob(TaskDashboardWarmup, err)
		}
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	start := time.Now()
	sum, err := j.Dashboard.Refresh(ctx)
	if err != nil {
		logger.Error("dashboard warmup", slog.Any("error", err))
		return err
	}
	logger.Info("dashboard warmed",
		slog.Int("pending_transfers", sum.PendingTransfers),
		slog.Int("active_promotions", sum.ActivePromotions),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}
