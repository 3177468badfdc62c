// Package scheduler matches leads against active follow-up schedules and
// creates pending executions. Ticks are periodic batch jobs: a fault on one
// schedule or one candidate lead is logged and skipped, never aborting the
// rest of the tick.
package scheduler

import (
	"context"
	"time"

	"leadflow_backend/internal/followup/repository"
	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Per-business ticks are independent; this bounds how many run at once
// during a TickAll sweep.
const maxConcurrentBusinesses = 4

// Scheduler creates pending executions for matching leads.
type Scheduler struct {
	schedules  repository.ScheduleReader
	executions repository.ExecutionStore
	leads      leadrepo.CandidateLister
	log        *logger.Logger
	now        func() time.Time
}

// New creates a follow-up scheduler.
func New(schedules repository.ScheduleReader, executions repository.ExecutionStore, leads leadrepo.CandidateLister, log *logger.Logger) *Scheduler {
	return &Scheduler{
		schedules:  schedules,
		executions: executions,
		leads:      leads,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the scheduler's clock.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// TickAll runs one scheduling pass for every business with at least one
// active schedule.
func (s *Scheduler) TickAll(ctx context.Context) error {
	businessIDs, err := s.schedules.ListBusinessesWithActiveSchedules(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBusinesses)

	for _, businessID := range businessIDs {
		id := businessID
		g.Go(func() error {
			if err := s.Tick(gctx, id); err != nil {
				s.log.Error("scheduler tick failed", "businessId", id, "error", err)
			}
			// Tenants never fail each other's ticks.
			return nil
		})
	}

	return g.Wait()
}

// Tick evaluates every active schedule of one business and creates at most
// one new pending execution per matching lead.
func (s *Scheduler) Tick(ctx context.Context, businessID uuid.UUID) error {
	started := s.now()

	schedules, err := s.schedules.ListActiveSchedules(ctx, businessID)
	if err != nil {
		return err
	}

	created, failed := 0, 0
	for _, schedule := range schedules {
		c, f := s.evaluateSchedule(ctx, schedule)
		created += c
		failed += f
	}

	s.log.TickSummary("followup_scheduler", created, failed, float64(time.Since(started).Milliseconds()))
	return nil
}

// evaluateSchedule finds candidate leads for one schedule and inserts
// pending executions for them. Returns (created, failed) counts.
func (s *Scheduler) evaluateSchedule(ctx context.Context, schedule repository.Schedule) (int, int) {
	now := s.now()
	cutoff := now.Add(-time.Duration(schedule.Trigger.DaysWithoutContact) * 24 * time.Hour)

	candidates, err := s.leads.ListFollowupCandidates(ctx, schedule.BusinessID,
		schedule.Trigger.Statuses, schedule.Trigger.Priorities, cutoff)
	if err != nil {
		s.log.Error("candidate query failed",
			"scheduleId", schedule.ID,
			"businessId", schedule.BusinessID,
			"error", err,
		)
		return 0, 1
	}

	created, failed := 0, 0
	for _, lead := range candidates {
		if hasExcludedTag(lead, schedule.Trigger.ExcludeTags) {
			continue
		}

		ok, err := s.scheduleLead(ctx, schedule, lead.ID, now)
		if err != nil {
			s.log.Error("execution create failed",
				"scheduleId", schedule.ID,
				"leadId", lead.ID,
				"error", err,
			)
			failed++
			continue
		}
		if ok {
			created++
		}
	}

	return created, failed
}

// scheduleLead creates one pending execution unless the lead is already in
// flight for this schedule. The pre-check keeps normal ticks cheap; the
// partial unique index makes the racing case a benign no-op.
func (s *Scheduler) scheduleLead(ctx context.Context, schedule repository.Schedule, leadID uuid.UUID, now time.Time) (bool, error) {
	open, err := s.executions.HasOpenExecution(ctx, schedule.ID, leadID)
	if err != nil {
		return false, err
	}
	if open {
		return false, nil
	}

	return s.executions.CreateExecution(ctx, repository.CreateExecutionParams{
		BusinessID:   schedule.BusinessID,
		ScheduleID:   schedule.ID,
		LeadID:       leadID,
		ScheduledFor: now.Add(schedule.Delay()),
	})
}

func hasExcludedTag(lead leadrepo.Lead, excludeTags []string) bool {
	for _, tag := range excludeTags {
		if lead.HasTag(tag) {
			return true
		}
	}
	return false
}
