package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderhub/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	DefaultDispatchRetrySchedule = "*/15 * * * * *"
	DefaultDispatchRetryBatch    = 50
)

// PendingOrdersAssigner runs one retry sweep.
type PendingOrdersAssigner interface {
	Handle(ctx context.Context, cmd commands.AssignPendingOrdersCommand) (commands.AssignPendingOrdersResult, error)
}

// DispatchRetryJob periodically retries driver assignment for ready orders that
// found no driver when they became ready. A sweep that is still running when the
// next one is due makes the next one skip.
type DispatchRetryJob struct {
	handler   PendingOrdersAssigner
	schedule  string
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewDispatchRetryJob uses the defaults for an empty schedule or a non-positive batch.
// The schedule is a six-field cron expression with seconds.
func NewDispatchRetryJob(
	handler PendingOrdersAssigner,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *DispatchRetryJob {
	if schedule == "" {
		schedule = DefaultDispatchRetrySchedule
	}
	if batchSize <= 0 {
		batchSize = DefaultDispatchRetryBatch
	}

	return &DispatchRetryJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		timeout:   time.Minute,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "dispatch_retry_job"),
	}
}

func (j *DispatchRetryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch retry job started",
		slog.String("schedule", j.schedule),
		slog.Int("batch_size", j.batchSize))
	return nil
}

// Stop waits for a running sweep to finish.
func (j *DispatchRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch retry job stopped")
}

// Run performs a single sweep.
func (j *DispatchRetryJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewAssignPendingOrdersCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch retry job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Dispatch retry job failed", "error", err)
		return
	}

	if result.Attempted > 0 {
		j.logger.InfoContext(ctx, "Dispatch retry sweep finished",
			slog.Int("attempted", result.Attempted),
			slog.Int("assigned", result.Assigned),
			slog.Int("failed", result.Failed))
	}
}
