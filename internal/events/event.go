package events

import (
	"github.com/google/uuid"
)

// Event names.
const (
	EventLeadQualified             = "lead.qualified"
	EventFollowupExecutionFinished = "followup.execution.finished"
)

// LeadQualified is published after intake has scored and stamped a new lead.
type LeadQualified struct {
	BaseEvent
	BusinessID        uuid.UUID
	LeadID            uuid.UUID
	LeadName          string
	LeadEmail         string
	ServiceType       string
	Priority          string
	Score             int
	Tags              []string
	ShouldAutoContact bool
}

// EventName returns the unique event identifier.
func (e LeadQualified) EventName() string { return EventLeadQualified }

// FollowupExecutionFinished is published when the executor drives an
// execution to a terminal state.
type FollowupExecutionFinished struct {
	BaseEvent
	BusinessID   uuid.UUID
	ExecutionID  uuid.UUID
	ScheduleID   uuid.UUID
	ScheduleName string
	LeadID       uuid.UUID
	Status       string
	Error        string
}

// EventName returns the unique event identifier.
func (e FollowupExecutionFinished) EventName() string { return EventFollowupExecutionFinished }
