package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/morph/logger"
	"text2phenotype.com/morph/tasks"
)

type mockedClientsConfig struct {
	rmqMockConfig
	redisMockConfig
	s3MockConfig
	pipelineMockConfig
}

type mockedClients struct {
	redis    *redisMock
	rmq      *rmqMock
	s3       *s3Mock
	pipeline *pipelineMock
}

type methodsCalls struct {
	redis    redisMockCalls
	rmq      rmqMockCalls
	s3       s3MockCalls
	pipeline pipelineCall
}

var allowCalls = cmp.AllowUnexported(methodsCalls{}, redisMockCalls{}, rmqMockCalls{}, s3MockCalls{}, pipelineCall{})

func configureWorker(config mockedClientsConfig) (*Worker, *mockedClients) {
	redis := &redisMock{config: config.redisMockConfig}
	s3 := &s3Mock{config: config.s3MockConfig}
	rmq := &rmqMock{config: config.rmqMockConfig}
	pplnMock := getPipelineMock(config.pipelineMockConfig)

	log := logger.NewLogger("Test Worker")

	return &Worker{
			config: Config{TaskMaxRetries: 3, TaskTimeoutSeconds: 5},
			redis:  redis,
			s3:     s3,
			rmq:    rmq,
			log:    &log,
			ppln:   pplnMock.ppln,
		}, &mockedClients{
			redis:    redis,
			rmq:      rmq,
			s3:       s3,
			pipeline: pplnMock,
		}
}

var (
	successfulRun = methodsCalls{
		redis:    redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true, onTaskComplete: true},
		rmq:      rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
		s3:       s3MockCalls{getProcessedData: true, saveResultsFile: true},
		pipeline: pipelineCall{true},
	}
	skippedRun = func(redis redisMockCalls) methodsCalls {
		return methodsCalls{
			redis: redis,
			rmq:   rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
		}
	}
)

func chunkWithStatus(info tasks.ChunkTaskInfo) withValue {
	return withValue{returnedValue: tasks.ChunkTask{
		TaskStatuses: tasks.ChunkTaskStatuses{Lemmatizer: info},
	}}
}

func TestWorker(t *testing.T) {
	cases := []struct {
		name     string
		config   mockedClientsConfig
		expected methodsCalls
	}{
		{
			name:     "Successful",
			expected: successfulRun,
		},
		{
			name: "Successful with job_task.stop_docs_on_failure == True",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{
				getJobTask: withValue{returnedValue: tasks.JobTask{StopDocumentsOnFailure: true}},
			}},
			expected: methodsCalls{
				redis: redisMockCalls{
					getChunkTask: true, getJobTask: true, getDocTask: true, onTaskStarted: true, onTaskComplete: true,
				},
				rmq:      successfulRun.rmq,
				s3:       successfulRun.s3,
				pipeline: pipelineCall{true},
			},
		},
		{
			name:   "Failed to get Chunk task",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{getChunkTask: withValue{fail: true}}},
			expected: methodsCalls{
				redis: redisMockCalls{getChunkTask: true},
				rmq:   rmqMockCalls{rejectDelivery: true},
			},
		},
		{
			name:   "Failed to get Job task",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{getJobTask: withValue{fail: true}}},
			expected: methodsCalls{
				redis: redisMockCalls{getChunkTask: true, getJobTask: true},
				rmq:   rmqMockCalls{rejectDelivery: true},
			},
		},
		{
			name: "Failed to get Doc task",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{
				getJobTask: withValue{returnedValue: tasks.JobTask{StopDocumentsOnFailure: true}},
				getDocTask: withValue{fail: true},
			}},
			expected: methodsCalls{
				redis: redisMockCalls{getChunkTask: true, getJobTask: true, getDocTask: true},
				rmq:   rmqMockCalls{rejectDelivery: true},
			},
		},
		{
			name: "Already complete with success",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{
				getChunkTask: chunkWithStatus(tasks.ChunkTaskInfo{Status: tasks.TaskStatusCompletedSuccess}),
			}},
			expected: skippedRun(redisMockCalls{getChunkTask: true}),
		},
		{
			name: "Already complete with failure",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{
				getChunkTask: chunkWithStatus(tasks.ChunkTaskInfo{Status: tasks.TaskStatusCompletedFailure}),
			}},
			expected: skippedRun(redisMockCalls{getChunkTask: true}),
		},
		{
			name: "User cancelled",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{
				getJobTask: withValue{returnedValue: tasks.JobTask{UserCanceled: true}},
			}},
			expected: skippedRun(redisMockCalls{getChunkTask: true, getJobTask: true, onTaskCancelled: true}),
		},
		{
			name: "Exceeded attempts",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{
				getChunkTask: chunkWithStatus(tasks.ChunkTaskInfo{Attempts: 3}),
			}},
			expected: skippedRun(redisMockCalls{getChunkTask: true, getJobTask: true, onTaskExceededRetries: true}),
		},
		{
			name: "Failed to update task in onTaskExceededRetries",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{
				getChunkTask:          chunkWithStatus(tasks.ChunkTaskInfo{Attempts: 5}),
				onTaskExceededRetries: failingMethod{fail: true},
			}},
			expected: methodsCalls{
				redis: redisMockCalls{getChunkTask: true, getJobTask: true, onTaskExceededRetries: true},
				rmq:   rmqMockCalls{rejectDelivery: true},
			},
		},
		{
			name: "Cancelled because other worker already failed",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{
				getJobTask: withValue{returnedValue: tasks.JobTask{StopDocumentsOnFailure: true}},
				getDocTask: withValue{returnedValue: tasks.DocumentTaskCached{FailedTasks: []string{"some other task"}}},
			}},
			expected: skippedRun(redisMockCalls{getChunkTask: true, getJobTask: true, getDocTask: true, onTaskCancelled: true}),
		},
		{
			name:   "Failed to update task in onTaskStarted",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{onTaskStarted: failingMethod{fail: true}}},
			expected: methodsCalls{
				redis: redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true},
				rmq:   rmqMockCalls{rejectDelivery: true},
			},
		},
		{
			name:   "Failed to load data from S3",
			config: mockedClientsConfig{s3MockConfig: s3MockConfig{getProcessedData: withValue{fail: true}}},
			expected: methodsCalls{
				redis: redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true},
				rmq:   successfulRun.rmq,
				s3:    s3MockCalls{getProcessedData: true},
			},
		},
		{
			name:   "Failed due to pipeline error",
			config: mockedClientsConfig{pipelineMockConfig: pipelineMockConfig{fail: true}},
			expected: methodsCalls{
				redis:    redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true},
				rmq:      successfulRun.rmq,
				s3:       s3MockCalls{getProcessedData: true},
				pipeline: pipelineCall{true},
			},
		},
		{
			name:   "Failed due to pipeline panic",
			config: mockedClientsConfig{pipelineMockConfig: pipelineMockConfig{panics: true}},
			expected: methodsCalls{
				redis:    redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true},
				rmq:      successfulRun.rmq,
				s3:       s3MockCalls{getProcessedData: true},
				pipeline: pipelineCall{true},
			},
		},
		{
			name:   "Failed due to invalid pipeline output",
			config: mockedClientsConfig{pipelineMockConfig: pipelineMockConfig{result: "{not json"}},
			expected: methodsCalls{
				redis:    redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true},
				rmq:      successfulRun.rmq,
				s3:       s3MockCalls{getProcessedData: true},
				pipeline: pipelineCall{true},
			},
		},
		{
			name: "Failed to update task in onTaskFailedWithError",
			config: mockedClientsConfig{
				pipelineMockConfig: pipelineMockConfig{fail: true},
				redisMockConfig:    redisMockConfig{onTaskFailedWithError: failingMethod{fail: true}},
			},
			expected: methodsCalls{
				redis:    redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true},
				rmq:      rmqMockCalls{rejectDelivery: true},
				s3:       s3MockCalls{getProcessedData: true},
				pipeline: pipelineCall{true},
			},
		},
		{
			name:   "Failed to update task in onTaskComplete",
			config: mockedClientsConfig{redisMockConfig: redisMockConfig{onTaskComplete: failingMethod{fail: true}}},
			expected: methodsCalls{
				redis:    successfulRun.redis,
				rmq:      rmqMockCalls{rejectDelivery: true},
				s3:       successfulRun.s3,
				pipeline: pipelineCall{true},
			},
		},
		{
			name:   "Failed to save result to S3",
			config: mockedClientsConfig{s3MockConfig: s3MockConfig{saveResultsFile: failingMethod{fail: true}}},
			expected: methodsCalls{
				redis:    redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true},
				rmq:      successfulRun.rmq,
				s3:       successfulRun.s3,
				pipeline: pipelineCall{true},
			},
		},
		{
			name:     "Failed to acknowledge delivery",
			config:   mockedClientsConfig{rmqMockConfig: rmqMockConfig{acknowledgeDelivery: failingMethod{fail: true}}},
			expected: successfulRun,
		},
		{
			name:   "Failed to ping sequencer",
			config: mockedClientsConfig{rmqMockConfig: rmqMockConfig{pingSequencer: failingMethod{fail: true}}},
			expected: methodsCalls{
				redis:    successfulRun.redis,
				rmq:      rmqMockCalls{pingSequencer: true, rejectDelivery: true},
				s3:       successfulRun.s3,
				pipeline: pipelineCall{true},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			worker, mocks := configureWorker(c.config)
			worker.processMessage(&amqp.Delivery{Body: []byte(`{"redis_key": "chunk"}`)})
			calls := methodsCalls{
				redis:    mocks.redis.calls,
				rmq:      mocks.rmq.calls,
				s3:       mocks.s3.calls,
				pipeline: mocks.pipeline.calls,
			}
			if diff := cmp.Diff(c.expected, calls, allowCalls); diff != "" {
				t.Errorf("Got unexpected called methods set (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInvalidMessage(t *testing.T) {
	worker, mocks := configureWorker(mockedClientsConfig{})
	worker.processMessage(&amqp.Delivery{Body: []byte("not json")})
	require.False(t, mocks.redis.calls.getChunkTask)
	require.True(t, mocks.rmq.calls.rejectDelivery)
}

func TestResultsFileKey(t *testing.T) {
	task := &Task{
		redisKey:  "chunk-1",
		chunkTask: &tasks.ChunkTask{DocID: "doc-1"},
	}
	require.Equal(t,
		"processed/documents/doc-1/chunks/chunk-1/chunk-1.lemmatizer_results.json",
		getResultsFileKey(task))
}

func TestTaskTimeout(t *testing.T) {
	require.Equal(t, "5s", Config{TaskTimeoutSeconds: 5}.taskTimeout().String())
	require.Equal(t, "5m0s", Config{}.taskTimeout().String())
}

func TestPipelineTimeout(t *testing.T) {
	worker, mocks := configureWorker(mockedClientsConfig{pipelineMockConfig: pipelineMockConfig{hangs: true}})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	task, err := worker.createTask(ctx, &amqp.Delivery{Body: []byte(`{"redis_key": "chunk"}`)})
	require.NoError(t, err)
	require.NoError(t, worker.processTask(ctx, task))

	expected := methodsCalls{
		redis:    redisMockCalls{getChunkTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true},
		s3:       s3MockCalls{getProcessedData: true},
		pipeline: pipelineCall{true},
	}
	calls := methodsCalls{
		redis:    mocks.redis.calls,
		rmq:      mocks.rmq.calls,
		s3:       mocks.s3.calls,
		pipeline: mocks.pipeline.calls,
	}
	if diff := cmp.Diff(expected, calls, allowCalls); diff != "" {
		t.Errorf("Got unexpected called methods set (-want +got):\n%s", diff)
	}
	require.True(t, errors.Is(mocks.redis.failedWith, context.DeadlineExceeded))
	require.NoError(t, mocks.redis.failedCtxErr, "failure is recorded with a live context")
}
