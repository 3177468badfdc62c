// Package followup assembles the follow-up domain: schedule authoring, the
// scheduler that matches leads to schedules, and the executor that performs
// the declared actions.
package followup

import (
	"leadflow_backend/internal/email"
	"leadflow_backend/internal/events"
	"leadflow_backend/internal/followup/executor"
	"leadflow_backend/internal/followup/repository"
	"leadflow_backend/internal/followup/scheduler"
	"leadflow_backend/internal/followup/service"
	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/notification"
	"leadflow_backend/internal/tasks"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module owns the follow-up domain wiring.
type Module struct {
	repo      *repository.Repository
	service   *service.Service
	scheduler *scheduler.Scheduler
	executor  *executor.Executor
}

// NewModule wires the follow-up repositories, services, and the full action
// handler registry.
func NewModule(
	pool *pgxpool.Pool,
	leads *leadrepo.Repository,
	emailSvc *email.Service,
	notifications *notification.Service,
	taskCreator tasks.Creator,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)

	exec := executor.New(repo, repo, leads, bus, log)
	exec.Register(repository.ActionEmail, executor.NewEmailAction(emailSvc, leads))
	exec.Register(repository.ActionNotification, executor.NewNotificationAction(notifications))
	exec.Register(repository.ActionTask, executor.NewTaskAction(taskCreator))

	return &Module{
		repo:      repo,
		service:   service.New(repo, val, log),
		scheduler: scheduler.New(repo, repo, leads, log),
		executor:  exec,
	}
}

// Repository exposes the follow-up repository.
func (m *Module) Repository() *repository.Repository { return m.repo }

// Service exposes the schedule authoring service.
func (m *Module) Service() *service.Service { return m.service }

// Scheduler exposes the follow-up scheduler.
func (m *Module) Scheduler() *scheduler.Scheduler { return m.scheduler }

// Executor exposes the follow-up executor.
func (m *Module) Executor() *executor.Executor { return m.executor }
