package worker

import (
	"fmt"
	"path"
	"time"
)

// TaskName is the entry of task_statuses owned by this worker.
const TaskName = "lemmatizer"

func getResultsFileKey(task *Task) string {
	return path.Join(
		"processed",
		"documents",
		task.chunkTask.DocID,
		"chunks",
		task.redisKey,
		fmt.Sprintf("%s.%s_results.json", task.redisKey, TaskName),
	)
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func getFormattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
