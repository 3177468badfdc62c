package notification

import (
	"context"
	"fmt"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/events"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
)

const autoContactTrigger = "lead_created"

// Module subscribes to domain events and inverts the dependency: intake and
// the executor publish what happened, this module decides who hears about it.
type Module struct {
	service *Service
	email   *email.Service
	baseURL string
	log     *logger.Logger
}

// NewModule creates the notification module.
func NewModule(service *Service, emailSvc *email.Service, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		service: service,
		email:   emailSvc,
		baseURL: cfg.GetAppBaseURL(),
		log:     log,
	}
}

// Service exposes the underlying notification service.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterHandlers subscribes the module to the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.EventLeadQualified, events.HandlerFunc(m.handleLeadQualified))
	bus.Subscribe(events.EventFollowupExecutionFinished, events.HandlerFunc(m.handleExecutionFinished))
}

// handleLeadQualified sends the auto-contact email to the lead and alerts
// the team when qualification flagged the lead for immediate contact.
func (m *Module) handleLeadQualified(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadQualified)
	if !ok {
		return nil
	}
	if !e.ShouldAutoContact {
		return nil
	}

	if e.LeadEmail != "" {
		trigger := autoContactTrigger
		if _, err := m.email.SendTemplateEmail(ctx, email.SendTemplateEmailParams{
			BusinessID:   e.BusinessID,
			TemplateType: "auto_contact",
			TriggerEvent: &trigger,
			Recipients:   []string{e.LeadEmail},
			Variables: map[string]string{
				"lead_name":    e.LeadName,
				"service_type": e.ServiceType,
			},
		}); err != nil {
			m.log.Error("auto-contact email failed", "leadId", e.LeadID, "error", err)
		}
	}

	entityType := "lead"
	entityID := e.LeadID
	actionURL := fmt.Sprintf("%s/leads/%s", m.baseURL, e.LeadID)

	return m.service.NotifyTeam(ctx, TeamParams{
		BusinessID: e.BusinessID,
		Title:      "New high-priority lead",
		Message:    fmt.Sprintf("%s (%s) scored %d and needs immediate contact", e.LeadName, e.ServiceType, e.Score),
		Type:       "lead_qualified",
		EntityType: &entityType,
		EntityID:   &entityID,
		Priority:   PriorityUrgent,
		ActionURL:  &actionURL,
	})
}

// handleExecutionFinished surfaces failed follow-up executions to the team.
// Successful executions stay quiet; the ledger already records them.
func (m *Module) handleExecutionFinished(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FollowupExecutionFinished)
	if !ok {
		return nil
	}
	if e.Status != "failed" {
		return nil
	}

	entityType := "followup_execution"
	entityID := e.ExecutionID

	return m.service.NotifyTeam(ctx, TeamParams{
		BusinessID: e.BusinessID,
		Title:      "Follow-up failed",
		Message:    fmt.Sprintf("Follow-up %q failed for a lead: %s", e.ScheduleName, e.Error),
		Type:       "followup_failed",
		EntityType: &entityType,
		EntityID:   &entityID,
		Priority:   PriorityHigh,
		Metadata: map[string]any{
			"scheduleId": e.ScheduleID.String(),
			"leadId":     e.LeadID.String(),
		},
	})
}
