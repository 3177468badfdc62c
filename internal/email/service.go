// Package email resolves business-authored templates, renders them, and
// delivers them over SMTP while keeping a per-recipient delivery log.
package email

import (
	"context"

	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// Service is the email collaborator consumed by intake and the executor.
type Service struct {
	store  TemplateStore
	sender Sender
	log    *logger.Logger
}

// NewService creates an email service.
func NewService(store TemplateStore, sender Sender, log *logger.Logger) *Service {
	return &Service{store: store, sender: sender, log: log}
}

// GetTemplate resolves the most specific active template, or nil when none
// exists. Callers treat nil as "skip this action", never as an error.
func (s *Service) GetTemplate(ctx context.Context, businessID uuid.UUID, templateType string, triggerEvent *string) (*Template, error) {
	return s.store.GetTemplate(ctx, businessID, templateType, triggerEvent)
}

// SendTemplateEmailParams describes one templated send.
type SendTemplateEmailParams struct {
	BusinessID   uuid.UUID
	TemplateType string
	TriggerEvent *string
	Recipients   []string
	Variables    map[string]string
}

// SendTemplateEmail resolves and renders the template, then sends to each
// recipient, writing exactly one delivery-log row per recipient regardless
// of transport outcome. A transport failure marks that recipient's log row
// failed and flips the overall result to false without aborting the rest.
// A missing template is a configuration gap: logged, skipped, result false.
// The returned error is reserved for store failures.
func (s *Service) SendTemplateEmail(ctx context.Context, p SendTemplateEmailParams) (bool, error) {
	tmpl, err := s.GetTemplate(ctx, p.BusinessID, p.TemplateType, p.TriggerEvent)
	if err != nil {
		return false, err
	}
	if tmpl == nil {
		s.log.Warn("no active email template, skipping send",
			"businessId", p.BusinessID,
			"type", p.TemplateType,
		)
		return false, nil
	}

	subject := Render(tmpl.Subject, p.Variables)
	body := Render(tmpl.Body, p.Variables)

	allSent := true
	for _, recipient := range p.Recipients {
		logParams := CreateLogParams{
			BusinessID: p.BusinessID,
			TemplateID: &tmpl.ID,
			Recipient:  recipient,
			Subject:    subject,
			Status:     DeliverySent,
		}

		if sendErr := s.sender.Send(ctx, recipient, subject, body); sendErr != nil {
			allSent = false
			msg := sendErr.Error()
			logParams.Status = DeliveryFailed
			logParams.Error = &msg
			s.log.DeliveryFailure("email", recipient, sendErr)
		}

		if logErr := s.store.CreateLog(ctx, logParams); logErr != nil {
			s.log.Error("email delivery log write failed", "error", logErr, "recipient", recipient)
		}
	}

	return allSent, nil
}
