package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"text2phenotype.com/morph/api"
	"text2phenotype.com/morph/cache"
	"text2phenotype.com/morph/logger"
	"text2phenotype.com/morph/pipeline"
	"text2phenotype.com/morph/worker"
)

const pipelineStartMaxRetries = 5

func main() {
	envFile := flag.String("env", ".env", "file with environment defaults, ignored when missing")
	checkResources := flag.Bool("check-resources", false, "load configurations and resources, then exit")
	word := flag.String("lemmatize", "", "print the lemmas of a word and exit")
	configName := flag.String("config", "", "configuration used by -lemmatize, the first one by default")
	tag := flag.String("tag", "", "grammatical tag used by -lemmatize")
	flag.Parse()

	// variables already set in the process win over the file
	envErr := godotenv.Load(*envFile)

	logger.SetupLogging()
	morphLogger := logger.NewLogger("Main")
	fatalErrLogger := morphLogger.Fatal().Caller()
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		morphLogger.Warn().Err(envErr).Str("file", *envFile).Msg("Could not read env file")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
	}
	var apiConfig api.Config
	if err := envconfig.Process("", &apiConfig); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read API environment")
	}

	src, closeSource, err := openSource(config)
	if err != nil {
		fatalErrLogger.Err(err).Msg("Failed to open resources")
	}
	defer closeSource()

	if *checkResources || len(*word) > 0 {
		svc, err := loadService(config, src, nil)
		if err != nil {
			fatalErrLogger.Err(err).Msg("Failed to load resources")
		}
		if *checkResources {
			morphLogger.Info().
				Int("configurations", len(svc.configs)).
				Int("languages", len(svc.languages)).
				Msg("Resources are valid. Exit...")
			return
		}
		res, err := svc.lemmatizeWord(*configName, *word, *tag)
		if err != nil {
			fatalErrLogger.Err(err).Msg("Failed to lemmatize word")
		}
		out, _ := json.Marshal(res)
		fmt.Println(string(out))
		return
	}

	lemmaCache, closeCache, err := cache.New()
	if err != nil {
		fatalErrLogger.Err(err).Msg("Failed to create lemma cache")
	}
	defer closeCache()

	// load pipeline
	var svc *service
	for retry := 0; retry < pipelineStartMaxRetries; retry++ {
		svc, err = loadService(config, src, lemmaCache)
		if err == nil {
			break
		}
		morphLogger.Err(err).Msg("Failed to load service. Retrying in 5 sec")
		time.Sleep(5 * time.Second)
	}
	if svc == nil {
		fatalErrLogger.Msgf("Could not start pipelines after %d retries, exiting", pipelineStartMaxRetries)
	}
	morphLogger.Info().Msgf("Loaded %d configurations", len(svc.configs))

	ppln, err := pipeline.Lemmatization(svc.params)
	if err != nil {
		fatalErrLogger.Err(err).Msg("Failed to start lemmatization pipeline")
	}
	morphLogger.Info().Msg("Pipelines loaded")

	apiErrors := make(chan error, 1)
	if apiConfig.Active {
		handler, err := newAPIHandler(svc, ppln, apiConfig)
		if err != nil {
			fatalErrLogger.Err(err).Msg("Failed to create API handlers")
		}
		go func() {
			host := fmt.Sprintf(":%s", apiConfig.Port)
			morphLogger.Info().Msgf("REST API on %s", host)
			apiErrors <- http.ListenAndServe(host, handler)
		}()
	}

	if !config.WorkerActive {
		if !apiConfig.Active {
			morphLogger.Warn().Msg("Neither the worker nor the REST API is active. Exit...")
			return
		}
		err := <-apiErrors
		fatalErrLogger.Err(err).Msg("REST API stopped with error")
	}

	morphLogger.Info().Msg("Start lemmatizer worker")
	for {
		select {
		case err := <-apiErrors:
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		default:
		}
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			fatalErrLogger.Err(err).Msg("Could not initialize RMQ worker")
		}
		if err = rmqWorker.StartWorker(); err != nil {
			morphLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

func newAPIHandler(svc *service, ppln pipeline.Pipeline, apiConfig api.Config) (http.Handler, error) {
	word, err := pipeline.NewWordLemmatizer(svc.params)
	if err != nil {
		return nil, err
	}
	batch, err := pipeline.NewBatchLemmatizer(svc.params)
	if err != nil {
		return nil, err
	}
	return api.NewHandler(api.Server{
		Request:   &api.Request{Pipeline: ppln},
		Lemmas:    &api.Lemmas{Word: word, Batch: batch},
		Languages: api.LanguageInfos(svc.languages),
	}, apiConfig), nil
}
