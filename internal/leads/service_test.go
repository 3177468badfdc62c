package leads

import (
	"context"
	"testing"
	"time"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadWriter struct {
	statuses []string
	marked   []time.Time
}

func (f *fakeLeadWriter) Create(_ context.Context, p repository.CreateLeadParams) (repository.Lead, error) {
	return repository.Lead{}, nil
}

func (f *fakeLeadWriter) UpdateStatus(_ context.Context, id, businessID uuid.UUID, status string) (repository.Lead, error) {
	f.statuses = append(f.statuses, status)
	return repository.Lead{ID: id, BusinessID: businessID, Status: status}, nil
}

func (f *fakeLeadWriter) MarkContacted(_ context.Context, _, _ uuid.UUID, at time.Time) error {
	f.marked = append(f.marked, at)
	return nil
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := &fakeLeadWriter{}
	svc := New(repo, logger.New("development"))

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), "archived")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.statuses) != 0 {
		t.Fatalf("invalid status must not reach the repository")
	}
}

func TestUpdateStatus_ContactedStampsContactMoment(t *testing.T) {
	repo := &fakeLeadWriter{}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := New(repo, logger.New("development"))
	svc.now = func() time.Time { return now }

	lead, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), repository.StatusContacted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Status != repository.StatusContacted {
		t.Fatalf("expected contacted status, got %s", lead.Status)
	}
	if len(repo.marked) != 1 || !repo.marked[0].Equal(now) {
		t.Fatalf("expected contact stamp at %v, got %v", now, repo.marked)
	}
}

func TestUpdateStatus_OtherStatusesDoNotStamp(t *testing.T) {
	repo := &fakeLeadWriter{}
	svc := New(repo, logger.New("development"))

	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), repository.StatusLost); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.marked) != 0 {
		t.Fatalf("only the contacted transition stamps contact")
	}
}
