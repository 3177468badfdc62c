package repository

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses as tracked through the sales pipeline.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQuoted    = "quoted"
	StatusBooked    = "booked"
	StatusLost      = "lost"
)

// Lead is a prospective customer's intake submission.
// Leads are never hard-deleted.
type Lead struct {
	ID                 uuid.UUID
	BusinessID         uuid.UUID
	Name               string
	Email              string
	Phone              string
	ServiceType        string
	Location           string
	Message            string
	Status             string
	Priority           string
	Tags               []string
	Score              int
	QualificationNotes string
	CreatedAt          time.Time
	LastContactedAt    *time.Time
	UpdatedAt          time.Time
}

// HasTag reports whether the lead carries the given tag.
func (l Lead) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// BusinessSettings is the read-only qualification input authored per business.
type BusinessSettings struct {
	BusinessID          uuid.UUID
	ServiceArea         string
	Location            string
	PreferredServices   []string
	BlacklistedKeywords []string
}

// Member is a user belonging to a business team.
type Member struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

// CreateLeadParams carries intake fields plus the qualification stamp.
type CreateLeadParams struct {
	BusinessID         uuid.UUID
	Name               string
	Email              string
	Phone              string
	ServiceType        string
	Location           string
	Message            string
	Priority           string
	Tags               []string
	Score              int
	QualificationNotes string
}
