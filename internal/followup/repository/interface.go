package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduleReader provides read access to follow-up schedules.
type ScheduleReader interface {
	GetSchedule(ctx context.Context, id, businessID uuid.UUID) (Schedule, error)
	ListActiveSchedules(ctx context.Context, businessID uuid.UUID) ([]Schedule, error)
	ListBusinessesWithActiveSchedules(ctx context.Context) ([]uuid.UUID, error)
}

// ScheduleWriter persists authored schedules.
type ScheduleWriter interface {
	CreateSchedule(ctx context.Context, params CreateScheduleParams) (Schedule, error)
}

// ExecutionStore manages the execution ledger. CreateExecution reports
// whether a row was actually inserted: a duplicate pending execution for the
// same (schedule, lead) pair is a benign no-op, enforced by a partial unique
// index rather than a transaction.
type ExecutionStore interface {
	HasOpenExecution(ctx context.Context, scheduleID, leadID uuid.UUID) (bool, error)
	CreateExecution(ctx context.Context, params CreateExecutionParams) (bool, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]Execution, error)
	MarkSent(ctx context.Context, id uuid.UUID, executedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, executedAt time.Time, result ExecutionResult) error
}

// FollowupRepository combines all follow-up data access.
type FollowupRepository interface {
	ScheduleReader
	ScheduleWriter
	ExecutionStore
}
