package service

import (
	"context"
	"testing"

	"leadflow_backend/internal/followup/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeScheduleWriter struct {
	created []repository.CreateScheduleParams
}

func (f *fakeScheduleWriter) CreateSchedule(_ context.Context, p repository.CreateScheduleParams) (repository.Schedule, error) {
	f.created = append(f.created, p)
	return repository.Schedule{
		ID:         uuid.New(),
		BusinessID: p.BusinessID,
		Name:       p.Name,
		Trigger:    p.Trigger,
		Actions:    p.Actions,
		DelayDays:  p.DelayDays,
		DelayHours: p.DelayHours,
		IsActive:   p.IsActive,
	}, nil
}

func validParams() repository.CreateScheduleParams {
	return repository.CreateScheduleParams{
		BusinessID: uuid.New(),
		Name:       "three day nudge",
		Trigger: repository.TriggerCondition{
			Statuses:           []string{"new"},
			Priorities:         []string{"high"},
			DaysWithoutContact: 3,
		},
		Actions:   []repository.Action{{Kind: repository.ActionEmail, Template: "followup"}},
		DelayDays: 1,
		IsActive:  true,
	}
}

func newTestService(repo *fakeScheduleWriter) *Service {
	return New(repo, validator.New(), logger.New("development"))
}

func TestCreateSchedule_Valid(t *testing.T) {
	repo := &fakeScheduleWriter{}
	svc := newTestService(repo)

	schedule, err := svc.CreateSchedule(context.Background(), validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected schedule persisted")
	}
	if schedule.Name != "three day nudge" {
		t.Fatalf("unexpected schedule: %+v", schedule)
	}
}

func TestCreateSchedule_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&fakeScheduleWriter{})

	p := validParams()
	p.Trigger.Statuses = []string{"archived"}

	_, err := svc.CreateSchedule(context.Background(), p)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSchedule_RejectsEmptyActions(t *testing.T) {
	svc := newTestService(&fakeScheduleWriter{})

	p := validParams()
	p.Actions = nil

	_, err := svc.CreateSchedule(context.Background(), p)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSchedule_EmailActionRequiresTemplate(t *testing.T) {
	svc := newTestService(&fakeScheduleWriter{})

	p := validParams()
	p.Actions = []repository.Action{{Kind: repository.ActionEmail}}

	_, err := svc.CreateSchedule(context.Background(), p)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSchedule_TemplateOnlyValidForEmail(t *testing.T) {
	svc := newTestService(&fakeScheduleWriter{})

	p := validParams()
	p.Actions = []repository.Action{{Kind: repository.ActionTask, Template: "followup"}}

	_, err := svc.CreateSchedule(context.Background(), p)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSchedule_RejectsDelayHoursAboveDay(t *testing.T) {
	svc := newTestService(&fakeScheduleWriter{})

	p := validParams()
	p.DelayHours = 24

	_, err := svc.CreateSchedule(context.Background(), p)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
