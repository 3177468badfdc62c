// Package notification creates per-user in-app notifications and fans
// lead-lifecycle events out to a business's team.
package notification

import (
	"context"

	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// MemberReader lists business users for fan-out.
type MemberReader interface {
	ListMembers(ctx context.Context, businessID uuid.UUID) ([]leadrepo.Member, error)
}

// Service is the notification collaborator consumed by the executor and
// the event handlers.
type Service struct {
	store   Store
	members MemberReader
	log     *logger.Logger
}

// NewService creates a notification service.
func NewService(store Store, members MemberReader, log *logger.Logger) *Service {
	return &Service{store: store, members: members, log: log}
}

// Create persists a single notification and returns its id.
func (s *Service) Create(ctx context.Context, p CreateParams) (uuid.UUID, error) {
	n, err := s.store.Create(ctx, p)
	if err != nil {
		return uuid.Nil, err
	}
	return n.ID, nil
}

// NotifyTeam creates one notification per business member. A failure for
// one member is logged and does not stop the rest of the fan-out; the
// error of the first failure is returned once all members were attempted.
func (s *Service) NotifyTeam(ctx context.Context, p TeamParams) error {
	members, err := s.members.ListMembers(ctx, p.BusinessID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, member := range members {
		_, createErr := s.store.Create(ctx, CreateParams{
			BusinessID: p.BusinessID,
			UserID:     member.UserID,
			Title:      p.Title,
			Message:    p.Message,
			Type:       p.Type,
			EntityType: p.EntityType,
			EntityID:   p.EntityID,
			Priority:   p.Priority,
			ActionURL:  p.ActionURL,
			Metadata:   p.Metadata,
		})
		if createErr != nil {
			s.log.Error("team notification fan-out failed",
				"businessId", p.BusinessID,
				"userId", member.UserID,
				"error", createErr,
			)
			if firstErr == nil {
				firstErr = createErr
			}
		}
	}

	return firstErr
}

// ListUnread returns the unread notifications for a business, optionally
// narrowed to one user, ordered by priority rank then recency.
func (s *Service) ListUnread(ctx context.Context, businessID uuid.UUID, userID *uuid.UUID) ([]Notification, error) {
	return s.store.ListUnread(ctx, businessID, userID)
}

// MarkRead transitions one notification to read.
func (s *Service) MarkRead(ctx context.Context, businessID, id uuid.UUID) error {
	return s.store.MarkRead(ctx, businessID, id)
}

// MarkAllRead transitions all of a user's unread notifications to read.
func (s *Service) MarkAllRead(ctx context.Context, businessID, userID uuid.UUID) error {
	return s.store.MarkAllRead(ctx, businessID, userID)
}
