package scheduler

import (
	"context"
	"fmt"

	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// FollowupScheduler runs scheduling passes over follow-up schedules.
type FollowupScheduler interface {
	TickAll(ctx context.Context) error
	Tick(ctx context.Context, businessID uuid.UUID) error
}

// FollowupExecutor drains due pending executions.
type FollowupExecutor interface {
	Tick(ctx context.Context, batchSize int) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	followups FollowupScheduler
	executor  FollowupExecutor
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, followups FollowupScheduler, executor FollowupExecutor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		followups: followups,
		executor:  executor,
		log:       log,
	}

	mux.HandleFunc(TaskFollowupSchedulerTick, w.handleSchedulerTick)
	mux.HandleFunc(TaskFollowupExecutorTick, w.handleExecutorTick)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleSchedulerTick(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowupSchedulerTickPayload(task)
	if err != nil {
		return err
	}

	if payload.All {
		return w.followups.TickAll(ctx)
	}

	businessID, err := uuid.Parse(payload.BusinessID)
	if err != nil {
		return err
	}

	return w.followups.Tick(ctx, businessID)
}

func (w *Worker) handleExecutorTick(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowupExecutorTickPayload(task)
	if err != nil {
		return err
	}

	return w.executor.Tick(ctx, payload.BatchSize)
}
