// Package leads exposes the lead lifecycle operations the embedding
// application calls: status transitions and contact stamps.
package leads

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

const opUpdateStatus = "leads.service.update_status"

var validStatuses = map[string]bool{
	repository.StatusNew:       true,
	repository.StatusContacted: true,
	repository.StatusQuoted:    true,
	repository.StatusBooked:    true,
	repository.StatusLost:      true,
}

// Service manages the lead pipeline after intake.
type Service struct {
	repo repository.LeadWriter
	log  *logger.Logger
	now  func() time.Time
}

// New creates a lead lifecycle service.
func New(repo repository.LeadWriter, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// UpdateStatus moves a lead to a new pipeline status. Entering contacted
// also stamps the contact moment, which restarts the follow-up staleness
// window.
func (s *Service) UpdateStatus(ctx context.Context, id, businessID uuid.UUID, status string) (repository.Lead, error) {
	if !validStatuses[status] {
		return repository.Lead{}, apperr.Validation(fmt.Sprintf("unknown lead status %q", status)).WithOp(opUpdateStatus)
	}

	lead, err := s.repo.UpdateStatus(ctx, id, businessID, status)
	if err != nil {
		return repository.Lead{}, err
	}

	if status == repository.StatusContacted {
		if err := s.repo.MarkContacted(ctx, id, businessID, s.now()); err != nil {
			s.log.Error("contact stamp failed", "leadId", id, "error", err)
		}
	}

	s.log.Info("lead status updated", "leadId", id, "businessId", businessID, "status", status)
	return lead, nil
}
