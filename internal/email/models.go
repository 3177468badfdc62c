package email

import (
	"time"

	"github.com/google/uuid"
)

// Delivery log statuses. One log row is written per recipient regardless of
// transport outcome.
const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

// Template is a business-authored email template. Body and subject may
// contain {{variable}} placeholders.
type Template struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	Type         string
	TriggerEvent *string
	Subject      string
	Body         string
	Variables    []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DeliveryLog records one delivery attempt to one recipient.
type DeliveryLog struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	TemplateID *uuid.UUID
	Recipient  string
	Subject    string
	Status     string
	Error      *string
	CreatedAt  time.Time
}

// CreateLogParams carries one delivery log row.
type CreateLogParams struct {
	BusinessID uuid.UUID
	TemplateID *uuid.UUID
	Recipient  string
	Subject    string
	Status     string
	Error      *string
}
