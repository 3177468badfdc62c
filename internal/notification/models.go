package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification statuses; unread -> read is a one-way transition.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Notification priorities, highest first in unread listings.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Notification is one per-user in-app notification row.
type Notification struct {
	ID           uuid.UUID      `json:"id"`
	BusinessID   uuid.UUID      `json:"businessId"`
	UserID       uuid.UUID      `json:"userId"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Type         string         `json:"type"`
	EntityType   *string        `json:"entityType,omitempty"`
	EntityID     *uuid.UUID     `json:"entityId,omitempty"`
	Priority     string         `json:"priority"`
	Status       string         `json:"status"`
	ActionURL    *string        `json:"actionUrl,omitempty"`
	ScheduledFor *time.Time     `json:"scheduledFor,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// CreateParams carries one notification row.
type CreateParams struct {
	BusinessID   uuid.UUID
	UserID       uuid.UUID
	Title        string
	Message      string
	Type         string
	EntityType   *string
	EntityID     *uuid.UUID
	Priority     string
	ActionURL    *string
	ScheduledFor *time.Time
	Metadata     map[string]any
}

// TeamParams describes a notification fanned out to every member of a
// business; the per-user fields are filled in during fan-out.
type TeamParams struct {
	BusinessID uuid.UUID
	Title      string
	Message    string
	Type       string
	EntityType *string
	EntityID   *uuid.UUID
	Priority   string
	ActionURL  *string
	Metadata   map[string]any
}
