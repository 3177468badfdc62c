package executor

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/followup/repository"
	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/notification"
	"leadflow_backend/internal/tasks"

	"github.com/google/uuid"
)

const followupTrigger = "followup"

// Reminder tasks land one day out; the agent picks the real slot.
const reminderLeadTime = 24 * time.Hour

// ContactMarker stamps the lead's last contact moment.
type ContactMarker interface {
	MarkContacted(ctx context.Context, id, businessID uuid.UUID, at time.Time) error
}

// EmailAction sends the schedule's templated email to the lead. A missing
// template or a transport failure is recorded at the delivery-log level and
// does not fail the execution. A delivered email stamps the lead as
// contacted so the staleness window restarts.
type EmailAction struct {
	email *email.Service
	leads ContactMarker
}

// NewEmailAction creates the email action handler.
func NewEmailAction(emailSvc *email.Service, leads ContactMarker) *EmailAction {
	return &EmailAction{email: emailSvc, leads: leads}
}

func (a *EmailAction) Execute(ctx context.Context, lead leadrepo.Lead, schedule repository.Schedule, action repository.Action) error {
	if lead.Email == "" {
		return nil
	}

	trigger := followupTrigger
	sent, err := a.email.SendTemplateEmail(ctx, email.SendTemplateEmailParams{
		BusinessID:   lead.BusinessID,
		TemplateType: action.Template,
		TriggerEvent: &trigger,
		Recipients:   []string{lead.Email},
		Variables: map[string]string{
			"lead_name":     lead.Name,
			"lead_email":    lead.Email,
			"lead_phone":    lead.Phone,
			"service_type":  lead.ServiceType,
			"location":      lead.Location,
			"schedule_name": schedule.Name,
		},
	})
	if err != nil {
		return err
	}
	if !sent {
		return nil
	}

	return a.leads.MarkContacted(ctx, lead.ID, lead.BusinessID, time.Now())
}

// NotificationAction fans a lead-lifecycle notification out to the whole
// business team.
type NotificationAction struct {
	notifications *notification.Service
}

// NewNotificationAction creates the notification action handler.
func NewNotificationAction(notifications *notification.Service) *NotificationAction {
	return &NotificationAction{notifications: notifications}
}

func (a *NotificationAction) Execute(ctx context.Context, lead leadrepo.Lead, schedule repository.Schedule, action repository.Action) error {
	entityType := "lead"
	entityID := lead.ID

	return a.notifications.NotifyTeam(ctx, notification.TeamParams{
		BusinessID: lead.BusinessID,
		Title:      fmt.Sprintf("Follow up with %s", lead.Name),
		Message:    fmt.Sprintf("Schedule %q triggered for %s (%s)", schedule.Name, lead.Name, lead.ServiceType),
		Type:       "followup_due",
		EntityType: &entityType,
		EntityID:   &entityID,
		Priority:   notification.PriorityMedium,
		Metadata: map[string]any{
			"scheduleId": schedule.ID.String(),
		},
	})
}

// TaskAction creates a reminder-style calendar placeholder for the lead.
type TaskAction struct {
	tasks tasks.Creator
}

// NewTaskAction creates the task action handler.
func NewTaskAction(creator tasks.Creator) *TaskAction {
	return &TaskAction{tasks: creator}
}

func (a *TaskAction) Execute(ctx context.Context, lead leadrepo.Lead, schedule repository.Schedule, action repository.Action) error {
	_, err := a.tasks.Create(ctx, tasks.CreateParams{
		BusinessID:  lead.BusinessID,
		LeadID:      lead.ID,
		Title:       fmt.Sprintf("Follow up: %s", lead.Name),
		Description: fmt.Sprintf("Created by follow-up schedule %q", schedule.Name),
		DueAt:       time.Now().Add(reminderLeadTime),
	})
	return err
}
