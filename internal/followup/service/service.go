// Package service handles follow-up schedule authoring. Malformed schedules
// are rejected here, at creation time, so the scheduler and executor can
// trust what they load.
package service

import (
	"context"
	"fmt"

	"leadflow_backend/internal/followup/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"
)

const opCreateSchedule = "followup.service.create_schedule"

// Service validates and persists follow-up schedules.
type Service struct {
	repo repository.ScheduleWriter
	val  *validator.Validator
	log  *logger.Logger
}

// New creates a schedule authoring service.
func New(repo repository.ScheduleWriter, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, val: val, log: log}
}

// CreateSchedule validates the authored schedule and persists it.
func (s *Service) CreateSchedule(ctx context.Context, p repository.CreateScheduleParams) (repository.Schedule, error) {
	if err := s.val.Struct(p); err != nil {
		return repository.Schedule{}, apperr.Wrap(apperr.KindValidation, "invalid schedule", err).WithOp(opCreateSchedule)
	}

	for i, action := range p.Actions {
		if action.Kind == repository.ActionEmail && action.Template == "" {
			return repository.Schedule{}, apperr.Validation(
				fmt.Sprintf("action %d: email actions require a template type", i)).WithOp(opCreateSchedule)
		}
		if action.Kind != repository.ActionEmail && action.Template != "" {
			return repository.Schedule{}, apperr.Validation(
				fmt.Sprintf("action %d: template is only valid on email actions", i)).WithOp(opCreateSchedule)
		}
	}

	schedule, err := s.repo.CreateSchedule(ctx, p)
	if err != nil {
		return repository.Schedule{}, err
	}

	s.log.Info("followup schedule created",
		"scheduleId", schedule.ID,
		"businessId", schedule.BusinessID,
		"actions", len(schedule.Actions),
	)

	return schedule, nil
}
