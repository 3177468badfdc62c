package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFollowupSchedulerTick = "followup.scheduler.tick"

const TaskFollowupExecutorTick = "followup.executor.tick"

type FollowupSchedulerTickPayload struct {
	BusinessID string `json:"businessId,omitempty"`
	All        bool   `json:"all"`
}

type FollowupExecutorTickPayload struct {
	BatchSize int `json:"batchSize"`
}

func NewFollowupSchedulerTickTask(payload FollowupSchedulerTickPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowupSchedulerTick, data), nil
}

func ParseFollowupSchedulerTickPayload(task *asynq.Task) (FollowupSchedulerTickPayload, error) {
	var payload FollowupSchedulerTickPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowupSchedulerTickPayload{}, err
	}
	return payload, nil
}

func NewFollowupExecutorTickTask(payload FollowupExecutorTickPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowupExecutorTick, data), nil
}

func ParseFollowupExecutorTickPayload(task *asynq.Task) (FollowupExecutorTickPayload, error) {
	var payload FollowupExecutorTickPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowupExecutorTickPayload{}, err
	}
	return payload, nil
}
