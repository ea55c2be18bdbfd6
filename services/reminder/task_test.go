package reminder

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewGenerateTask(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	task, err := NewGenerateTask(now)
	require.NoError(t, err)
	require.Equal(t, TaskReminderGenerate, task.Type())

	var payload BatchPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.True(t, payload.TriggeredAt.Equal(now))
}

func TestNewProcessTask(t *testing.T) {
	task, err := NewProcessTask(time.Now())
	require.NoError(t, err)
	require.Equal(t, TaskReminderProcess, task.Type())
}
