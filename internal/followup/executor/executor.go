// Package executor drains due pending follow-up executions in bounded
// batches and drives each one to a terminal state. Actions run sequentially
// in declared order with at-least-once, non-transactional semantics: work
// already performed before a failure is not rolled back, and a crash
// mid-batch means the same execution is reprocessed on the next tick.
package executor

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/followup/repository"
	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"
)

// DefaultBatchSize caps one tick's worth of executions, bounding tick
// latency and providing backpressure after an outage backlog.
const DefaultBatchSize = 50

// ActionHandler executes one follow-up action kind. New kinds extend the
// registry without touching the executor's core loop.
type ActionHandler interface {
	Execute(ctx context.Context, lead leadrepo.Lead, schedule repository.Schedule, action repository.Action) error
}

// Executor finalizes due pending executions.
type Executor struct {
	executions repository.ExecutionStore
	schedules  repository.ScheduleReader
	leads      leadrepo.LeadReader
	handlers   map[repository.ActionKind]ActionHandler
	bus        events.Bus
	log        *logger.Logger
	now        func() time.Time
}

// New creates a follow-up executor with an empty handler registry.
func New(executions repository.ExecutionStore, schedules repository.ScheduleReader, leads leadrepo.LeadReader, bus events.Bus, log *logger.Logger) *Executor {
	return &Executor{
		executions: executions,
		schedules:  schedules,
		leads:      leads,
		handlers:   make(map[repository.ActionKind]ActionHandler),
		bus:        bus,
		log:        log,
		now:        time.Now,
	}
}

// Register adds a handler for an action kind.
func (e *Executor) Register(kind repository.ActionKind, handler ActionHandler) {
	e.handlers[kind] = handler
}

// WithClock overrides the executor's clock.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// Tick selects due pending executions oldest first, capped at batchSize,
// and drives each to sent or failed. A fault on one execution never
// prevents the rest of the batch from reaching a terminal outcome.
func (e *Executor) Tick(ctx context.Context, batchSize int) error {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	started := e.now()

	due, err := e.executions.ListDue(ctx, started, batchSize)
	if err != nil {
		return err
	}

	sent, failed := 0, 0
	for _, execution := range due {
		if ctx.Err() != nil {
			break
		}
		if e.process(ctx, execution) {
			sent++
		} else {
			failed++
		}
	}

	e.log.TickSummary("followup_executor", sent, failed, float64(time.Since(started).Milliseconds()))
	return nil
}

// process runs one execution's action chain and finalizes its status.
// Returns true when the execution reached sent.
func (e *Executor) process(ctx context.Context, execution repository.Execution) bool {
	schedule, lead, err := e.loadContext(ctx, execution)
	if err != nil {
		e.finalizeFailed(ctx, execution, schedule, repository.ExecutionResult{Error: err.Error()})
		return false
	}

	for i, action := range schedule.Actions {
		if err := e.runAction(ctx, lead, schedule, action); err != nil {
			e.log.Error("followup action failed",
				"executionId", execution.ID,
				"scheduleId", schedule.ID,
				"leadId", lead.ID,
				"action", string(action.Kind),
				"error", err,
			)
			e.finalizeFailed(ctx, execution, schedule, repository.ExecutionResult{
				FailedAction:     string(action.Kind),
				ActionIndex:      i,
				CompletedActions: i,
				Error:            err.Error(),
			})
			return false
		}
	}

	if err := e.executions.MarkSent(ctx, execution.ID, e.now()); err != nil {
		e.log.Error("finalize sent failed", "executionId", execution.ID, "error", err)
		return false
	}

	e.publishFinished(ctx, execution, schedule, repository.ExecutionSent, "")
	return true
}

// loadContext resolves the owning schedule and lead. The lead's current
// trigger eligibility is deliberately not re-validated here; a stale
// follow-up on a lead that has since moved on still fires.
func (e *Executor) loadContext(ctx context.Context, execution repository.Execution) (repository.Schedule, leadrepo.Lead, error) {
	schedule, err := e.schedules.GetSchedule(ctx, execution.ScheduleID, execution.BusinessID)
	if err != nil {
		return repository.Schedule{}, leadrepo.Lead{}, fmt.Errorf("load schedule: %w", err)
	}

	lead, err := e.leads.GetByID(ctx, execution.LeadID, execution.BusinessID)
	if err != nil {
		return schedule, leadrepo.Lead{}, fmt.Errorf("load lead: %w", err)
	}

	return schedule, lead, nil
}

func (e *Executor) runAction(ctx context.Context, lead leadrepo.Lead, schedule repository.Schedule, action repository.Action) error {
	handler, ok := e.handlers[action.Kind]
	if !ok {
		return fmt.Errorf("no handler registered for action kind %q", action.Kind)
	}
	return handler.Execute(ctx, lead, schedule, action)
}

func (e *Executor) finalizeFailed(ctx context.Context, execution repository.Execution, schedule repository.Schedule, result repository.ExecutionResult) {
	if err := e.executions.MarkFailed(ctx, execution.ID, e.now(), result); err != nil {
		e.log.Error("finalize failed failed", "executionId", execution.ID, "error", err)
		return
	}
	e.publishFinished(ctx, execution, schedule, repository.ExecutionFailed, result.Error)
}

func (e *Executor) publishFinished(ctx context.Context, execution repository.Execution, schedule repository.Schedule, status, errMsg string) {
	if e.bus == nil {
		return
	}

	e.bus.Publish(ctx, events.FollowupExecutionFinished{
		BaseEvent:    events.NewBaseEvent(),
		BusinessID:   execution.BusinessID,
		ExecutionID:  execution.ID,
		ScheduleID:   execution.ScheduleID,
		ScheduleName: schedule.Name,
		LeadID:       execution.LeadID,
		Status:       status,
		Error:        errMsg,
	})
}
