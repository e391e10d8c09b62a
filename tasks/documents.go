package tasks

import (
	"context"
	"errors"
	"sync"

	"text2phenotype.com/morph/redis"
)

const DocumentsDB redis.DB = 0

type DocumentTask struct {
	redis.BaseDocument
	FailedTasks  []string            `json:"failed_tasks"`
	FailedChunks map[string][]string `json:"failed_chunks"`
}

// DocumentTaskCached is the lightweight copy of a document kept under the cached properties key.
type DocumentTaskCached struct {
	redis.BaseDocument
	DocInfo     map[string]interface{} `json:"document_info"`
	FailedTasks []string               `json:"failed_tasks"`
	JobID       string                 `json:"job_id"`
	WorkType    string                 `json:"work_type"`
}

type DocumentTasks struct {
	client redis.Client
}

func (tasks DocumentTasks) Get(ctx context.Context, redisKey string) (*DocumentTask, error) {
	var task DocumentTask
	if err := tasks.client.GetDocument(ctx, redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks DocumentTasks) GetCached(ctx context.Context, redisKey string) (*DocumentTaskCached, error) {
	var task DocumentTaskCached
	if err := tasks.client.GetDocument(ctx, cachedPropertiesKey(redisKey), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update changes the document and mirrors its failed tasks into the cached copy.
func (tasks DocumentTasks) Update(ctx context.Context, redisKey string, updateFunc func(task *DocumentTask)) (err error) {
	releaseLock, err := tasks.client.Lock(ctx, redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := releaseLock(); err == nil {
			err = releaseErr
		}
	}()

	var task DocumentTask
	if err = tasks.client.GetDocument(ctx, redisKey, &task); err != nil {
		return err
	}
	var cached DocumentTaskCached
	cachedKey := cachedPropertiesKey(redisKey)
	if err = tasks.client.GetDocument(ctx, cachedKey, &cached); err != nil && !errors.Is(err, redis.ErrNotFound) {
		return err
	}
	updateFunc(&task)
	cached.FailedTasks = task.FailedTasks

	errChan := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		errChan <- tasks.client.SaveDocument(ctx, redisKey, &task)
	}()
	go func() {
		defer wg.Done()
		errChan <- tasks.client.SaveDocument(ctx, cachedKey, &cached)
	}()
	wg.Wait()
	close(errChan)
	for err = range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}
