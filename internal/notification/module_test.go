package notification

import (
	"context"
	"testing"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/events"
	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct{}

func (testNotificationConfig) GetAppBaseURL() string { return "https://app.example.com" }

type testTemplateStore struct {
	template *email.Template
	logs     []email.CreateLogParams
}

func (s *testTemplateStore) GetTemplate(_ context.Context, _ uuid.UUID, _ string, _ *string) (*email.Template, error) {
	return s.template, nil
}

func (s *testTemplateStore) CreateLog(_ context.Context, p email.CreateLogParams) error {
	s.logs = append(s.logs, p)
	return nil
}

type testEmailSender struct {
	recipients []string
}

func (s *testEmailSender) Send(_ context.Context, toEmail, _, _ string) error {
	s.recipients = append(s.recipients, toEmail)
	return nil
}

type moduleFixture struct {
	module  *Module
	store   *fakeStore
	sender  *testEmailSender
	members []uuid.UUID
}

func newModuleFixture() *moduleFixture {
	log := logger.New("development")

	memberID := uuid.New()
	store := &fakeStore{}
	svc := NewService(store, &fakeMembers{members: []leadrepo.Member{{UserID: memberID}}}, log)

	sender := &testEmailSender{}
	emailSvc := email.NewService(&testTemplateStore{template: &email.Template{
		ID:       uuid.New(),
		Type:     "auto_contact",
		Subject:  "Thanks {{lead_name}}",
		Body:     "We received your {{service_type}} request.",
		IsActive: true,
	}}, sender, log)

	return &moduleFixture{
		module:  NewModule(svc, emailSvc, testNotificationConfig{}, log),
		store:   store,
		sender:  sender,
		members: []uuid.UUID{memberID},
	}
}

func TestHandleLeadQualified_AutoContactEmailsLeadAndAlertsTeam(t *testing.T) {
	f := newModuleFixture()
	leadID := uuid.New()

	err := f.module.handleLeadQualified(context.Background(), events.LeadQualified{
		BusinessID:        uuid.New(),
		LeadID:            leadID,
		LeadName:          "Jane",
		LeadEmail:         "jane@example.com",
		ServiceType:       "Emergency Plumbing",
		Priority:          "high",
		Score:             110,
		ShouldAutoContact: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.sender.recipients) != 1 || f.sender.recipients[0] != "jane@example.com" {
		t.Fatalf("expected auto-contact email to the lead, got %v", f.sender.recipients)
	}
	if len(f.store.created) != 1 {
		t.Fatalf("expected 1 team notification, got %d", len(f.store.created))
	}

	created := f.store.created[0]
	if created.Priority != PriorityUrgent {
		t.Fatalf("expected urgent priority, got %s", created.Priority)
	}
	if created.ActionURL == nil || *created.ActionURL != "https://app.example.com/leads/"+leadID.String() {
		t.Fatalf("unexpected action url: %v", created.ActionURL)
	}
}

func TestHandleLeadQualified_IgnoresLeadsWithoutAutoContact(t *testing.T) {
	f := newModuleFixture()

	err := f.module.handleLeadQualified(context.Background(), events.LeadQualified{
		BusinessID:        uuid.New(),
		LeadID:            uuid.New(),
		ShouldAutoContact: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.sender.recipients) != 0 || len(f.store.created) != 0 {
		t.Fatalf("nothing may happen for non-auto-contact leads")
	}
}

func TestHandleExecutionFinished_OnlyFailuresAlertTheTeam(t *testing.T) {
	f := newModuleFixture()

	err := f.module.handleExecutionFinished(context.Background(), events.FollowupExecutionFinished{
		BusinessID:   uuid.New(),
		ExecutionID:  uuid.New(),
		ScheduleName: "three day nudge",
		Status:       "sent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.store.created) != 0 {
		t.Fatalf("successful executions must stay quiet")
	}

	err = f.module.handleExecutionFinished(context.Background(), events.FollowupExecutionFinished{
		BusinessID:   uuid.New(),
		ExecutionID:  uuid.New(),
		ScheduleName: "three day nudge",
		Status:       "failed",
		Error:        "smtp timeout",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.store.created) != 1 {
		t.Fatalf("expected 1 failure alert, got %d", len(f.store.created))
	}
	if f.store.created[0].Priority != PriorityHigh {
		t.Fatalf("expected high priority alert, got %s", f.store.created[0].Priority)
	}
}
