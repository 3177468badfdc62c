package repository

import (
	"time"

	"github.com/google/uuid"
)

// Execution statuses. pending is the only non-terminal state; sent and
// failed are immutable and retained for audit.
const (
	ExecutionPending = "pending"
	ExecutionSent    = "sent"
	ExecutionFailed  = "failed"
)

// ActionKind tags the follow-up action variants.
type ActionKind string

const (
	ActionEmail        ActionKind = "email"
	ActionNotification ActionKind = "notification"
	ActionTask         ActionKind = "task"
)

// TriggerCondition is the predicate gating schedule applicability.
type TriggerCondition struct {
	Statuses           []string `json:"statuses" validate:"required,min=1,dive,oneof=new contacted quoted booked lost"`
	Priorities         []string `json:"priorities" validate:"required,min=1,dive,oneof=low medium high"`
	DaysWithoutContact int      `json:"daysWithoutContact" validate:"gte=0"`
	ExcludeTags        []string `json:"excludeTags"`
}

// Action is one tagged effect performed when an execution runs.
// Template is only meaningful for email actions.
type Action struct {
	Kind     ActionKind `json:"kind" validate:"required,oneof=email notification task"`
	Template string     `json:"template,omitempty"`
}

// Schedule is a declarative follow-up rule authored by a business owner.
type Schedule struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	Name       string
	Trigger    TriggerCondition
	Actions    []Action
	DelayDays  int
	DelayHours int
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Delay returns the schedule's configured lead time before execution.
func (s Schedule) Delay() time.Duration {
	return time.Duration(s.DelayDays)*24*time.Hour + time.Duration(s.DelayHours)*time.Hour
}

// ExecutionResult captures structured failure detail on a failed execution.
type ExecutionResult struct {
	FailedAction     string `json:"failedAction,omitempty"`
	ActionIndex      int    `json:"actionIndex"`
	CompletedActions int    `json:"completedActions"`
	Error            string `json:"error,omitempty"`
}

// Execution is one instance of a schedule applied to one lead. Executions
// form an append-only automation ledger and are never deleted.
type Execution struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	ScheduleID   uuid.UUID
	LeadID       uuid.UUID
	Status       string
	ScheduledFor time.Time
	ExecutedAt   *time.Time
	Result       *ExecutionResult
	CreatedAt    time.Time
}

// CreateScheduleParams carries a new schedule through authoring validation.
type CreateScheduleParams struct {
	BusinessID uuid.UUID        `validate:"required"`
	Name       string           `validate:"required,max=200"`
	Trigger    TriggerCondition `validate:"required"`
	Actions    []Action         `validate:"required,min=1,dive"`
	DelayDays  int              `validate:"gte=0"`
	DelayHours int              `validate:"gte=0,lte=23"`
	IsActive   bool
}

// CreateExecutionParams creates a pending execution for a matched lead.
type CreateExecutionParams struct {
	BusinessID   uuid.UUID
	ScheduleID   uuid.UUID
	LeadID       uuid.UUID
	ScheduledFor time.Time
}
