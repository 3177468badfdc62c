package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data, scoped by business.
type LeadReader interface {
	GetByID(ctx context.Context, id, businessID uuid.UUID) (Lead, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	UpdateStatus(ctx context.Context, id, businessID uuid.UUID, status string) (Lead, error)
	MarkContacted(ctx context.Context, id, businessID uuid.UUID, at time.Time) error
}

// CandidateLister selects leads eligible for follow-up scheduling.
// Staleness and status/priority membership are filtered in SQL; tag
// exclusion is evaluated by the caller.
type CandidateLister interface {
	ListFollowupCandidates(ctx context.Context, businessID uuid.UUID, statuses, priorities []string, contactedBefore time.Time) ([]Lead, error)
}

// SettingsReader provides the per-business qualification settings.
type SettingsReader interface {
	GetBusinessSettings(ctx context.Context, businessID uuid.UUID) (BusinessSettings, error)
}

// MemberReader lists business users for fan-out notifications.
type MemberReader interface {
	ListMembers(ctx context.Context, businessID uuid.UUID) ([]Member, error)
}

// LeadsRepository combines all lead data access used by the engine.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	CandidateLister
	SettingsReader
	MemberReader
}
