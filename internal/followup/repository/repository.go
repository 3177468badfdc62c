package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opGetSchedule      = "followup.repository.get_schedule"
	opListActive       = "followup.repository.list_active_schedules"
	opListBusinesses   = "followup.repository.list_businesses"
	opCreateSchedule   = "followup.repository.create_schedule"
	opHasOpenExecution = "followup.repository.has_open_execution"
	opCreateExecution  = "followup.repository.create_execution"
	opListDue          = "followup.repository.list_due"
	opMarkSent         = "followup.repository.mark_sent"
	opMarkFailed       = "followup.repository.mark_failed"

	errRepoNotConfigured = "followup repository not configured"

	// Postgres unique_violation; raced inserts on the pending index are benign.
	pgUniqueViolation = "23505"
)

// Repository provides pgx-backed schedule and execution access.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a followup repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetSchedule(ctx context.Context, id, businessID uuid.UUID) (Schedule, error) {
	if r == nil || r.pool == nil {
		return Schedule{}, apperr.Internal(errRepoNotConfigured).WithOp(opGetSchedule)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT id, business_id, name, trigger_condition, actions,
		       delay_days, delay_hours, is_active, created_at, updated_at
		FROM followup_schedules
		WHERE id = $1 AND business_id = $2
	`, id, businessID)

	schedule, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Schedule{}, apperr.NotFound("schedule not found").WithOp(opGetSchedule)
		}
		return Schedule{}, apperr.Internal(fmt.Sprintf("get schedule failed: %v", err)).WithOp(opGetSchedule)
	}

	return schedule, nil
}

// ListActiveSchedules returns a business's active schedules ordered by
// ascending delay. The ordering is an implementation convenience for
// predictable logs; schedules do not interact.
func (r *Repository) ListActiveSchedules(ctx context.Context, businessID uuid.UUID) ([]Schedule, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListActive)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, business_id, name, trigger_condition, actions,
		       delay_days, delay_hours, is_active, created_at, updated_at
		FROM followup_schedules
		WHERE business_id = $1 AND is_active = TRUE
		ORDER BY delay_days ASC, delay_hours ASC
	`, businessID)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list active schedules failed: %v", err)).WithOp(opListActive)
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		schedule, scanErr := scanSchedule(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan schedule failed: %v", scanErr)).WithOp(opListActive)
		}
		schedules = append(schedules, schedule)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate schedules failed: %v", rowsErr)).WithOp(opListActive)
	}

	return schedules, nil
}

func (r *Repository) ListBusinessesWithActiveSchedules(ctx context.Context) ([]uuid.UUID, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListBusinesses)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT business_id
		FROM followup_schedules
		WHERE is_active = TRUE
	`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list businesses failed: %v", err)).WithOp(opListBusinesses)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan business id failed: %v", scanErr)).WithOp(opListBusinesses)
		}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate business ids failed: %v", rowsErr)).WithOp(opListBusinesses)
	}

	return ids, nil
}

func (r *Repository) CreateSchedule(ctx context.Context, p CreateScheduleParams) (Schedule, error) {
	if r == nil || r.pool == nil {
		return Schedule{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreateSchedule)
	}

	triggerJSON, err := json.Marshal(p.Trigger)
	if err != nil {
		return Schedule{}, apperr.Internal(fmt.Sprintf("marshal trigger failed: %v", err)).WithOp(opCreateSchedule)
	}
	actionsJSON, err := json.Marshal(p.Actions)
	if err != nil {
		return Schedule{}, apperr.Internal(fmt.Sprintf("marshal actions failed: %v", err)).WithOp(opCreateSchedule)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO followup_schedules
			(business_id, name, trigger_condition, actions, delay_days, delay_hours, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, business_id, name, trigger_condition, actions,
		          delay_days, delay_hours, is_active, created_at, updated_at
	`, p.BusinessID, p.Name, triggerJSON, actionsJSON, p.DelayDays, p.DelayHours, p.IsActive)

	schedule, err := scanSchedule(row)
	if err != nil {
		return Schedule{}, apperr.Internal(fmt.Sprintf("create schedule failed: %v", err)).WithOp(opCreateSchedule)
	}

	return schedule, nil
}

// HasOpenExecution reports whether the lead already has a pending or sent
// execution for the schedule.
func (r *Repository) HasOpenExecution(ctx context.Context, scheduleID, leadID uuid.UUID) (bool, error) {
	if r == nil || r.pool == nil {
		return false, apperr.Internal(errRepoNotConfigured).WithOp(opHasOpenExecution)
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM followup_executions
			WHERE schedule_id = $1 AND lead_id = $2 AND status IN ($3, $4)
		)
	`, scheduleID, leadID, ExecutionPending, ExecutionSent).Scan(&exists)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("check open execution failed: %v", err)).WithOp(opHasOpenExecution)
	}

	return exists, nil
}

// CreateExecution inserts a pending execution. A concurrent duplicate hits
// the partial unique index on (schedule_id, lead_id) WHERE status='pending'
// and is reported as created=false, not an error.
func (r *Repository) CreateExecution(ctx context.Context, p CreateExecutionParams) (bool, error) {
	if r == nil || r.pool == nil {
		return false, apperr.Internal(errRepoNotConfigured).WithOp(opCreateExecution)
	}
	if p.BusinessID == uuid.Nil || p.ScheduleID == uuid.Nil || p.LeadID == uuid.Nil {
		return false, apperr.Validation("businessId, scheduleId and leadId are required").WithOp(opCreateExecution)
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO followup_executions (business_id, schedule_id, lead_id, status, scheduled_for)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`, p.BusinessID, p.ScheduleID, p.LeadID, ExecutionPending, p.ScheduledFor)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return false, nil
		}
		return false, apperr.Internal(fmt.Sprintf("create execution failed: %v", err)).WithOp(opCreateExecution)
	}

	return tag.RowsAffected() > 0, nil
}

const listDueExecutionsQuery = `
	SELECT id, business_id, schedule_id, lead_id, status,
	       scheduled_for, executed_at, result, created_at
	FROM followup_executions
	WHERE status = $1 AND scheduled_for <= $2
	ORDER BY scheduled_for ASC
	LIMIT $3
`

// ListDue returns pending executions whose scheduled_for has arrived,
// oldest first, capped at limit.
func (r *Repository) ListDue(ctx context.Context, now time.Time, limit int) ([]Execution, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Internal(errRepoNotConfigured).WithOp(opListDue)
	}
	if limit < 1 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, listDueExecutionsQuery, ExecutionPending, now, limit)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list due executions failed: %v", err)).WithOp(opListDue)
	}
	defer rows.Close()

	executions := make([]Execution, 0, limit)
	for rows.Next() {
		execution, scanErr := scanExecution(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan execution failed: %v", scanErr)).WithOp(opListDue)
		}
		executions = append(executions, execution)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate executions failed: %v", rowsErr)).WithOp(opListDue)
	}

	return executions, nil
}

// MarkSent finalizes a pending execution as sent. The status guard keeps
// terminal rows immutable when overlapping ticks reprocess the same row.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, executedAt time.Time) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkSent)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE followup_executions
		SET status = $2, executed_at = $3
		WHERE id = $1 AND status = $4
	`, id, ExecutionSent, executedAt, ExecutionPending)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark execution sent failed: %v", err)).WithOp(opMarkSent)
	}

	return nil
}

// MarkFailed finalizes a pending execution as failed with structured detail.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, executedAt time.Time, result ExecutionResult) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkFailed)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("marshal execution result failed: %v", err)).WithOp(opMarkFailed)
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE followup_executions
		SET status = $2, executed_at = $3, result = $4
		WHERE id = $1 AND status = $5
	`, id, ExecutionFailed, executedAt, resultJSON, ExecutionPending)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark execution failed failed: %v", err)).WithOp(opMarkFailed)
	}

	return nil
}

func scanSchedule(row pgx.Row) (Schedule, error) {
	var s Schedule
	var triggerJSON, actionsJSON []byte

	err := row.Scan(&s.ID, &s.BusinessID, &s.Name, &triggerJSON, &actionsJSON,
		&s.DelayDays, &s.DelayHours, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Schedule{}, err
	}

	if err := json.Unmarshal(triggerJSON, &s.Trigger); err != nil {
		return Schedule{}, fmt.Errorf("decode trigger_condition: %w", err)
	}
	if err := json.Unmarshal(actionsJSON, &s.Actions); err != nil {
		return Schedule{}, fmt.Errorf("decode actions: %w", err)
	}

	return s, nil
}

func scanExecution(row pgx.Row) (Execution, error) {
	var e Execution
	var resultJSON []byte

	err := row.Scan(&e.ID, &e.BusinessID, &e.ScheduleID, &e.LeadID, &e.Status,
		&e.ScheduledFor, &e.ExecutedAt, &resultJSON, &e.CreatedAt)
	if err != nil {
		return Execution{}, err
	}

	if len(resultJSON) > 0 {
		var result ExecutionResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return Execution{}, fmt.Errorf("decode result: %w", err)
		}
		e.Result = &result
	}

	return e, nil
}
