package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup rebuilds the cached dashboard summary.
	TaskDashboardWarmup = "dashboard:warmup"
	// DashboardWarmupCron keeps the summary cache warm.
	DashboardWarmupCron = "*/5 * * * *"

	warmupUnique = 4 * time.Minute
)

// DashboardWarmupPayload describes why a warmup was requested.
type DashboardWarmupPayload struct {
	Reason string `json:"reason,omitempty"`
}

// NewDashboardWarmupTask constructs an Asynq task. Duplicate warmups within a
// few minutes are rejected by the queue.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data, asynq.Queue(QueueDefault), asynq.MaxRetry(2), asynq.Unique(warmupUnique)), nil
}
