package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"text2phenotype.com/morph/redis"
)

func TestTaskStatus(t *testing.T) {
	complete := []TaskStatus{TaskStatusCompletedSuccess, TaskStatusCompletedFailure, TaskStatusCanceled}
	submitted := []TaskStatus{TaskStatusSubmitted, TaskStatusStarted, TaskStatusProcessing}
	for _, s := range complete {
		require.True(t, s.Complete(), s)
		require.False(t, s.Submitted(), s)
	}
	for _, s := range submitted {
		require.False(t, s.Complete(), s)
		require.True(t, s.Submitted(), s)
	}
	require.False(t, TaskStatusFailed.Complete())
	require.False(t, TaskStatusFailed.Submitted())
}

func TestChunkTaskKeepsOtherStatuses(t *testing.T) {
	stored := `{
		"document_id": "doc",
		"job_id": "job",
		"text_file_key": "processed/documents/doc/chunks/c1/c1.txt",
		"task_statuses": {
			"ocr": {"status": "completed - success", "attempts": 1},
			"lemmatizer": {"status": "submitted", "attempts": 0}
		}
	}`
	var task ChunkTask
	require.NoError(t, redis.DecodeDocument([]byte(stored), &task))
	require.Equal(t, "doc", task.DocID)
	require.Equal(t, TaskStatusSubmitted, task.TaskStatuses.Lemmatizer.Status)

	task.TaskStatuses.Lemmatizer.Status = TaskStatusStarted
	task.TaskStatuses.Lemmatizer.Attempts = 1
	b, err := redis.EncodeDocument(&task)
	require.NoError(t, err)

	var statuses struct {
		TaskStatuses map[string]map[string]interface{} `json:"task_statuses"`
	}
	require.NoError(t, json.Unmarshal(b, &statuses))
	require.Equal(t, "completed - success", statuses.TaskStatuses["ocr"]["status"])
	require.Equal(t, "started", statuses.TaskStatuses["lemmatizer"]["status"])
	require.EqualValues(t, 1, statuses.TaskStatuses["lemmatizer"]["attempts"])
}

func TestCachedPropertiesKey(t *testing.T) {
	require.Equal(t, "doc-cached-properties", cachedPropertiesKey("doc"))
}
