package worker

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/morph/logger"
	"text2phenotype.com/morph/pipeline"
	"text2phenotype.com/morph/rmq"
	"text2phenotype.com/morph/s3client"
	"text2phenotype.com/morph/tasks"
)

type Config struct {
	TaskMaxRetries     int `envconfig:"MDL_COMN_RETRY_TASK_COUNT_MAX" default:"3"`
	TaskTimeoutSeconds int `envconfig:"LEM_TASK_TIMEOUT_SECONDS" default:"300"`
}

func (config Config) taskTimeout() time.Duration {
	if config.TaskTimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(config.TaskTimeoutSeconds) * time.Second
}

// Worker lemmatizes the text chunks announced on the lemmatizer task queue.
type Worker struct {
	config Config
	redis  redisTransactions
	s3     s3Transactions
	rmq    rmqTransactions
	log    *zerolog.Logger
	ppln   pipeline.Pipeline
}

func New(ppln pipeline.Pipeline) (*Worker, error) {
	log := logger.NewLogger("Worker")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Error().Err(err).Msg("Could not read config")
		return nil, err
	}

	worker := Worker{
		config: config,
		log:    &log,
		ppln:   ppln,
	}
	if err := worker.refreshRMQClient(); err != nil {
		return nil, fmt.Errorf("rmq client: %w", err)
	}
	if err := worker.refreshS3Client(); err != nil {
		worker.rmq.close()
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	if err := worker.refreshRedisClients(); err != nil {
		worker.rmq.close()
		worker.s3.close()
		return nil, fmt.Errorf("redis client: %w", err)
	}
	return &worker, nil
}

func (worker *Worker) StartWorker() error {
	defer worker.Close()
	for {
		select {
		case delivery, ok := <-worker.rmq.getDeliveriesCh():
			if ok {
				go worker.processMessage(&delivery)
				continue
			}
			worker.log.Error().Msg("Deliveries channel closed, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf("rmq deliveries channel has been closed and refresh returned error: %w", err)
			}
		case rmqErr := <-worker.rmq.getRespChanErrorsCh():
			if err := worker.onConnectionError("Response", rmqErr); err != nil {
				return err
			}
		case rmqErr := <-worker.rmq.getReqChanErrorsCh():
			if err := worker.onConnectionError("Request", rmqErr); err != nil {
				return err
			}
		}
	}
}

func (worker *Worker) onConnectionError(connection string, rmqErr *amqp.Error) error {
	if rmqErr == nil {
		return nil
	}
	worker.log.Err(rmqErr).Msgf("%s connection received error, trying to refresh RMQ client", connection)
	if err := worker.refreshRMQClient(); err != nil {
		return fmt.Errorf("%s connection received error and refresh failed with: %w", connection, err)
	}
	return nil
}

func (worker *Worker) Close() {
	worker.redis.close()
	worker.s3.close()
	worker.rmq.close()
}

func (worker *Worker) refreshRedisClients() error {
	worker.log.Info().Msg("Refreshing Redis client")
	if oldClient := worker.redis; oldClient != nil {
		defer oldClient.close()
	}
	tasksClient, err := tasks.NewClient()
	if err != nil {
		worker.log.Err(err).Msg("Failed to refresh Redis client")
		return err
	}
	worker.redis = &redisClientWrapper{&tasksClient}
	worker.log.Info().Msg("Refreshed Redis client")
	return nil
}

func (worker *Worker) refreshRMQClient() error {
	worker.log.Info().Msg("Refreshing RMQ client")
	if oldClient := worker.rmq; oldClient != nil {
		defer oldClient.close()
	}
	rmqClient, err := rmq.NewClient()
	if err != nil {
		worker.log.Err(err).Msg("Failed to refresh RMQ client")
		return err
	}
	worker.rmq = &rmqClientWrapper{rmqClient}
	worker.log.Info().Msg("Refreshed RMQ client")
	return nil
}

func (worker *Worker) refreshS3Client() error {
	worker.log.Info().Msg("Refreshing S3 client")
	if oldClient := worker.s3; oldClient != nil {
		defer oldClient.close()
	}
	s3Client, err := s3client.New()
	if err != nil {
		worker.log.Err(err).Msg("Failed to refresh S3 client")
		return err
	}
	worker.s3 = &s3ClientWrapper{s3Client}
	worker.log.Info().Msg("Refreshed S3 client")
	return nil
}
