package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/followup/repository"
	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

var tickTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeExecutionStore struct {
	due      []repository.Execution
	gotLimit int
	sent     []uuid.UUID
	failed   map[uuid.UUID]repository.ExecutionResult
}

func (f *fakeExecutionStore) HasOpenExecution(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeExecutionStore) CreateExecution(_ context.Context, _ repository.CreateExecutionParams) (bool, error) {
	return false, nil
}

func (f *fakeExecutionStore) ListDue(_ context.Context, _ time.Time, limit int) ([]repository.Execution, error) {
	f.gotLimit = limit
	if len(f.due) > limit {
		return f.due[:limit], nil
	}
	return f.due, nil
}

func (f *fakeExecutionStore) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeExecutionStore) MarkFailed(_ context.Context, id uuid.UUID, _ time.Time, result repository.ExecutionResult) error {
	if f.failed == nil {
		f.failed = make(map[uuid.UUID]repository.ExecutionResult)
	}
	f.failed[id] = result
	return nil
}

type fakeScheduleReader struct {
	schedules map[uuid.UUID]repository.Schedule
}

func (f *fakeScheduleReader) GetSchedule(_ context.Context, id, _ uuid.UUID) (repository.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return repository.Schedule{}, errors.New("schedule not found")
	}
	return s, nil
}

func (f *fakeScheduleReader) ListActiveSchedules(_ context.Context, _ uuid.UUID) ([]repository.Schedule, error) {
	return nil, nil
}

func (f *fakeScheduleReader) ListBusinessesWithActiveSchedules(_ context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeLeadReader struct {
	leads map[uuid.UUID]leadrepo.Lead
}

func (f *fakeLeadReader) GetByID(_ context.Context, id, _ uuid.UUID) (leadrepo.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return leadrepo.Lead{}, errors.New("lead not found")
	}
	return lead, nil
}

type recordingHandler struct {
	calls []repository.Action
	err   error
}

func (h *recordingHandler) Execute(_ context.Context, _ leadrepo.Lead, _ repository.Schedule, action repository.Action) error {
	h.calls = append(h.calls, action)
	return h.err
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}
func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}
func (b *recordingBus) Subscribe(_ string, _ events.Handler) {}

type fixture struct {
	executor   *Executor
	executions *fakeExecutionStore
	schedules  *fakeScheduleReader
	leads      *fakeLeadReader
	bus        *recordingBus
}

func newFixture() *fixture {
	executions := &fakeExecutionStore{}
	schedules := &fakeScheduleReader{schedules: make(map[uuid.UUID]repository.Schedule)}
	leads := &fakeLeadReader{leads: make(map[uuid.UUID]leadrepo.Lead)}
	bus := &recordingBus{}

	exec := New(executions, schedules, leads, bus, logger.New("development")).
		WithClock(func() time.Time { return tickTime })

	return &fixture{executor: exec, executions: executions, schedules: schedules, leads: leads, bus: bus}
}

func (f *fixture) addExecution(actions []repository.Action) repository.Execution {
	businessID := uuid.New()
	lead := leadrepo.Lead{ID: uuid.New(), BusinessID: businessID, Name: "Jane", Email: "jane@example.com"}
	schedule := repository.Schedule{
		ID:         uuid.New(),
		BusinessID: businessID,
		Name:       "nudge",
		Actions:    actions,
	}

	f.leads.leads[lead.ID] = lead
	f.schedules.schedules[schedule.ID] = schedule

	execution := repository.Execution{
		ID:           uuid.New(),
		BusinessID:   businessID,
		ScheduleID:   schedule.ID,
		LeadID:       lead.ID,
		Status:       repository.ExecutionPending,
		ScheduledFor: tickTime.Add(-time.Minute),
	}
	f.executions.due = append(f.executions.due, execution)
	return execution
}

func TestTick_DefaultsBatchSize(t *testing.T) {
	f := newFixture()

	if err := f.executor.Tick(context.Background(), 0); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if f.executions.gotLimit != DefaultBatchSize {
		t.Fatalf("expected default batch size %d, got %d", DefaultBatchSize, f.executions.gotLimit)
	}
}

func TestTick_ProcessesActionsInOrderAndMarksSent(t *testing.T) {
	f := newFixture()
	handler := &recordingHandler{}
	f.executor.Register(repository.ActionEmail, handler)
	f.executor.Register(repository.ActionNotification, handler)

	execution := f.addExecution([]repository.Action{
		{Kind: repository.ActionEmail, Template: "followup"},
		{Kind: repository.ActionNotification},
	})

	if err := f.executor.Tick(context.Background(), 10); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if len(handler.calls) != 2 {
		t.Fatalf("expected 2 action calls, got %d", len(handler.calls))
	}
	if handler.calls[0].Kind != repository.ActionEmail || handler.calls[1].Kind != repository.ActionNotification {
		t.Fatalf("actions ran out of order: %+v", handler.calls)
	}
	if len(f.executions.sent) != 1 || f.executions.sent[0] != execution.ID {
		t.Fatalf("expected execution marked sent, got %v", f.executions.sent)
	}

	if len(f.bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.bus.published))
	}
	finished, ok := f.bus.published[0].(events.FollowupExecutionFinished)
	if !ok {
		t.Fatalf("unexpected event type %T", f.bus.published[0])
	}
	if finished.Status != repository.ExecutionSent || finished.ExecutionID != execution.ID {
		t.Fatalf("unexpected finished event: %+v", finished)
	}
}

func TestTick_ActionFailureStopsChainAndRecordsResult(t *testing.T) {
	f := newFixture()
	emailHandler := &recordingHandler{}
	notifyHandler := &recordingHandler{err: errors.New("insert failed")}
	taskHandler := &recordingHandler{}
	f.executor.Register(repository.ActionEmail, emailHandler)
	f.executor.Register(repository.ActionNotification, notifyHandler)
	f.executor.Register(repository.ActionTask, taskHandler)

	execution := f.addExecution([]repository.Action{
		{Kind: repository.ActionEmail, Template: "followup"},
		{Kind: repository.ActionNotification},
		{Kind: repository.ActionTask},
	})

	if err := f.executor.Tick(context.Background(), 10); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if len(taskHandler.calls) != 0 {
		t.Fatalf("actions after the failure must not run")
	}
	if len(f.executions.sent) != 0 {
		t.Fatalf("failed execution must not be marked sent")
	}

	result, ok := f.executions.failed[execution.ID]
	if !ok {
		t.Fatalf("expected execution marked failed")
	}
	if result.FailedAction != string(repository.ActionNotification) {
		t.Fatalf("expected failed action notification, got %q", result.FailedAction)
	}
	if result.ActionIndex != 1 || result.CompletedActions != 1 {
		t.Fatalf("unexpected failure detail: %+v", result)
	}
	if result.Error == "" {
		t.Fatalf("expected error message in result")
	}

	finished, ok := f.bus.published[0].(events.FollowupExecutionFinished)
	if !ok || finished.Status != repository.ExecutionFailed {
		t.Fatalf("expected failed event, got %+v", f.bus.published)
	}
}

func TestTick_OneFailureDoesNotStopTheBatch(t *testing.T) {
	f := newFixture()
	f.executor.Register(repository.ActionEmail, &recordingHandler{})

	broken := f.addExecution([]repository.Action{{Kind: "sms"}})
	healthy := f.addExecution([]repository.Action{{Kind: repository.ActionEmail, Template: "followup"}})

	if err := f.executor.Tick(context.Background(), 10); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if _, ok := f.executions.failed[broken.ID]; !ok {
		t.Fatalf("expected unknown action kind to fail its execution")
	}
	if len(f.executions.sent) != 1 || f.executions.sent[0] != healthy.ID {
		t.Fatalf("expected healthy execution to still be sent, got %v", f.executions.sent)
	}
}

func TestTick_LoadFailureFinalizesAsFailed(t *testing.T) {
	f := newFixture()
	execution := f.addExecution([]repository.Action{{Kind: repository.ActionEmail, Template: "followup"}})
	delete(f.leads.leads, execution.LeadID)

	if err := f.executor.Tick(context.Background(), 10); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	result, ok := f.executions.failed[execution.ID]
	if !ok {
		t.Fatalf("expected execution marked failed when its lead cannot be loaded")
	}
	if result.Error == "" {
		t.Fatalf("expected error detail, got %+v", result)
	}
}

func TestTick_RespectsBatchCap(t *testing.T) {
	f := newFixture()
	f.executor.Register(repository.ActionEmail, &recordingHandler{})

	for i := 0; i < 5; i++ {
		f.addExecution([]repository.Action{{Kind: repository.ActionEmail, Template: "followup"}})
	}

	if err := f.executor.Tick(context.Background(), 3); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if f.executions.gotLimit != 3 {
		t.Fatalf("expected limit 3 passed to the store, got %d", f.executions.gotLimit)
	}
	if len(f.executions.sent) != 3 {
		t.Fatalf("expected exactly 3 processed, got %d", len(f.executions.sent))
	}
}
