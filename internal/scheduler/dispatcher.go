package scheduler

import (
	"context"
	"time"

	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
)

// TickDispatcher turns wall-clock time into tick tasks. It owns no business
// logic: it only enqueues work for the asynq worker so that a multi-replica
// deployment runs each tick exactly once.
type TickDispatcher struct {
	client            *Client
	schedulerInterval time.Duration
	executorInterval  time.Duration
	batchSize         int
	log               *logger.Logger
}

func NewTickDispatcher(cfg config.SchedulerConfig, log *logger.Logger) (*TickDispatcher, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	schedulerInterval := cfg.GetSchedulerTickInterval()
	if schedulerInterval <= 0 {
		schedulerInterval = 5 * time.Minute
	}

	executorInterval := cfg.GetExecutorTickInterval()
	if executorInterval <= 0 {
		executorInterval = time.Minute
	}

	return &TickDispatcher{
		client:            client,
		schedulerInterval: schedulerInterval,
		executorInterval:  executorInterval,
		batchSize:         cfg.GetExecutorBatchSize(),
		log:               log,
	}, nil
}

func (d *TickDispatcher) Close() error {
	if d == nil {
		return nil
	}
	return d.client.Close()
}

// Run blocks until ctx is cancelled, enqueuing scheduler and executor ticks
// at their configured intervals. Enqueue failures are logged and retried on
// the next interval.
func (d *TickDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	schedulerTicker := time.NewTicker(d.schedulerInterval)
	defer schedulerTicker.Stop()

	executorTicker := time.NewTicker(d.executorInterval)
	defer executorTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-schedulerTicker.C:
			err := d.client.EnqueueSchedulerTick(ctx, FollowupSchedulerTickPayload{All: true})
			if err != nil {
				d.log.Warn("scheduler tick enqueue failed", "error", err)
			}
		case <-executorTicker.C:
			err := d.client.EnqueueExecutorTick(ctx, FollowupExecutorTickPayload{BatchSize: d.batchSize})
			if err != nil {
				d.log.Warn("executor tick enqueue failed", "error", err)
			}
		}
	}
}
