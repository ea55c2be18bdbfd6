package reminder

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskReminderGenerate = "reminder:generate"
	TaskReminderProcess  = "reminder:process"
)

type BatchPayload struct {
	TriggeredAt time.Time `json:"triggeredAt"`
}

func NewGenerateTask(now time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(BatchPayload{TriggeredAt: now})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReminderGenerate, payload, asynq.Queue("default")), nil
}

func NewProcessTask(now time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(BatchPayload{TriggeredAt: now})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReminderProcess, payload, asynq.Queue("default")), nil
}
