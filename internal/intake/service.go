// Package intake is the synchronous boundary invoked on lead creation:
// it qualifies the submission, persists the stamped lead, and publishes
// the qualification outcome. Intake always succeeds as long as the lead
// row can be written; qualification itself never fails.
package intake

import (
	"context"
	"time"

	"leadflow_backend/internal/events"
	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/qualification"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository is the lead data access intake needs.
type Repository interface {
	Create(ctx context.Context, params leadrepo.CreateLeadParams) (leadrepo.Lead, error)
	GetBusinessSettings(ctx context.Context, businessID uuid.UUID) (leadrepo.BusinessSettings, error)
}

// Submission carries the raw intake form fields.
type Submission struct {
	BusinessID  uuid.UUID
	Name        string
	Email       string
	Phone       string
	ServiceType string
	Location    string
	Message     string
}

// Service qualifies and persists incoming leads.
type Service struct {
	engine *qualification.Engine
	repo   Repository
	bus    events.Bus
	log    *logger.Logger
	now    func() time.Time
}

// New creates an intake service.
func New(engine *qualification.Engine, repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{engine: engine, repo: repo, bus: bus, log: log, now: time.Now}
}

// WithClock overrides the service's clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// HandleSubmission qualifies the submission and creates the lead. Missing
// business settings degrade to an empty settings struct so intake never
// fails on configuration gaps.
func (s *Service) HandleSubmission(ctx context.Context, sub Submission) (leadrepo.Lead, error) {
	settings, err := s.repo.GetBusinessSettings(ctx, sub.BusinessID)
	if err != nil {
		s.log.Warn("business settings unavailable, qualifying without them",
			"businessId", sub.BusinessID,
			"error", err,
		)
		settings = leadrepo.BusinessSettings{BusinessID: sub.BusinessID}
	}

	result := s.engine.Qualify(qualification.Input{
		Name:        sub.Name,
		Email:       sub.Email,
		Phone:       sub.Phone,
		ServiceType: sub.ServiceType,
		Location:    sub.Location,
		Message:     sub.Message,
	}, qualification.Settings{
		ServiceArea:         settings.ServiceArea,
		Location:            settings.Location,
		PreferredServices:   settings.PreferredServices,
		BlacklistedKeywords: settings.BlacklistedKeywords,
	}, s.now())

	lead, err := s.repo.Create(ctx, leadrepo.CreateLeadParams{
		BusinessID:         sub.BusinessID,
		Name:               sub.Name,
		Email:              sub.Email,
		Phone:              sub.Phone,
		ServiceType:        sub.ServiceType,
		Location:           sub.Location,
		Message:            sub.Message,
		Priority:           result.Priority,
		Tags:               result.Tags,
		Score:              result.Score,
		QualificationNotes: result.Notes,
	})
	if err != nil {
		return leadrepo.Lead{}, err
	}

	s.log.Info("lead qualified",
		"leadId", lead.ID,
		"businessId", lead.BusinessID,
		"score", result.Score,
		"priority", result.Priority,
		"autoContact", result.ShouldAutoContact,
	)

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadQualified{
			BaseEvent:         events.NewBaseEvent(),
			BusinessID:        lead.BusinessID,
			LeadID:            lead.ID,
			LeadName:          lead.Name,
			LeadEmail:         lead.Email,
			ServiceType:       lead.ServiceType,
			Priority:          result.Priority,
			Score:             result.Score,
			Tags:              result.Tags,
			ShouldAutoContact: result.ShouldAutoContact,
		})
	}

	return lead, nil
}
