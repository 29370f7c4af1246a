package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/halocare/halocare-admin/jobs"
)

// Enqueuer is the part of *asynq.Client used to trigger jobs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobNames maps CLI job names to task types.
var JobNames = map[string]string{
	"dashboard-warmup": jobs.TaskDashboardWarmup,
}

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    Enqueuer
	inspector jobs.QueueInspector
}

// NewJobsCLI builds the helper from explicit collaborators.
func NewJobsCLI(client Enqueuer, inspector jobs.QueueInspector) *JobsCLI {
	return &JobsCLI{client: client, inspector: inspector}
}

// Trigger enqueues a supported job by CLI name.
func (c *JobsCLI) Trigger(ctx context.Context, name string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	var (
		task *asynq.Task
		err  error
	)
	switch JobNames[name] {
	case jobs.TaskDashboardWarmup:
		task, err = jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{Reason: "manual"})
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task)
}

// Stats reports the default queue.
func (c *JobsCLI) Stats() (jobs.QueueStats, error) {
	if c == nil || c.inspector == nil {
		return jobs.QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	return jobs.Stats(c.inspector)
}

// PrintStats writes stats as aligned key/value lines.
func PrintStats(w io.Writer, s jobs.QueueStats) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "queue\t%s\n", s.Queue)
	fmt.Fprintf(tw, "size\t%d\n", s.Size)
	fmt.Fprintf(tw, "pending\t%d\n", s.Pending)
	fmt.Fprintf(tw, "active\t%d\n", s.Active)
	fmt.Fprintf(tw, "scheduled\t%d\n", s.Scheduled)
	fmt.Fprintf(tw, "retry\t%d\n", s.Retry)
	fmt.Fprintf(tw, "archived\t%d\n", s.Archived)
	fmt.Fprintf(tw, "failed today\t%d\n", s.Failed)
	fmt.Fprintf(tw, "paused\t%t\n", s.Paused)
	return tw.Flush()
}

func newJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Trigger background jobs and inspect the queue",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "trigger <job>",
		Short:     "Enqueue a job now (dashboard-warmup)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"dashboard-warmup"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			client := asynq.NewClient(jobs.RedisOpt(cfg.Redis()))
			defer client.Close()
			info, err := NewJobsCLI(client, nil).Trigger(cmd.Context(), args[0])
			if errors.Is(err, asynq.ErrDuplicateTask) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already queued\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s (id %s, queue %s)\n", info.Type, info.ID, info.Queue)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the default queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			inspector := asynq.NewInspector(jobs.RedisOpt(cfg.Redis()))
			defer inspector.Close()
			stats, err := NewJobsCLI(nil, inspector).Stats()
			if err != nil {
				return err
			}
			return PrintStats(cmd.OutOrStdout(), stats)
		},
	})
	return cmd
}
