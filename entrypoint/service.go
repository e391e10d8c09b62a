package main

import (
	"errors"
	"fmt"
	"time"

	"text2phenotype.com/morph/cache"
	"text2phenotype.com/morph/lemmatizer"
	"text2phenotype.com/morph/pipeline"
	"text2phenotype.com/morph/resources"
	"text2phenotype.com/morph/s3client"
	"text2phenotype.com/morph/types"
)

type Config struct {
	ConfigPath        string `envconfig:"LEM_CONFIG_PATH" required:"true"`
	ResourcesPath     string `envconfig:"LEM_RESOURCES_PATH" default:""`
	ResourcesS3Prefix string `envconfig:"LEM_RESOURCES_S3_PREFIX" default:""`
	WorkerActive      bool   `envconfig:"LEM_WORKER_ACTIVE" default:"true"`
	BatchWorkers      int    `envconfig:"LEM_BATCH_WORKERS" default:"0"`
	CacheTimeoutMs    int    `envconfig:"LEM_CACHE_TIMEOUT_MS" default:"200"`
}

// service is everything built from configurations and resources at startup.
type service struct {
	configs   []types.Configuration
	languages map[string]*lemmatizer.Language
	params    pipeline.LemmatizationParams
}

// openSource picks the S3 prefix when set and the local folder otherwise.
func openSource(config Config) (resources.Source, func(), error) {
	if len(config.ResourcesS3Prefix) > 0 {
		client, err := s3client.New()
		if err != nil {
			return nil, nil, fmt.Errorf("resources s3 client: %w", err)
		}
		return resources.S3Source{Client: client, Prefix: config.ResourcesS3Prefix}, client.Close, nil
	}
	if len(config.ResourcesPath) == 0 {
		return nil, nil, errors.New("either LEM_RESOURCES_PATH or LEM_RESOURCES_S3_PREFIX is required")
	}
	return resources.DirSource{Root: config.ResourcesPath}, func() {}, nil
}

func loadService(config Config, src resources.Source, lemmaCache cache.LemmaCache) (*service, error) {
	cfgs, err := types.LoadConfigurations(config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("configurations: %w", err)
	}
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no valid configurations in %s", config.ConfigPath)
	}
	langs, err := resources.LoadLanguages(src, types.Languages(cfgs))
	if err != nil {
		return nil, fmt.Errorf("resources: %w", err)
	}
	return &service{
		configs:   cfgs,
		languages: langs,
		params: pipeline.LemmatizationParams{
			Configurations: cfgs,
			Languages:      langs,
			Cache:          lemmaCache,
			CacheTimeout:   time.Duration(config.CacheTimeoutMs) * time.Millisecond,
			BatchWorkers:   config.BatchWorkers,
		},
	}, nil
}

// lemmatizeWord serves the -lemmatize flag.
func (svc *service) lemmatizeWord(config string, word string, tag string) (types.WordResult, error) {
	if len(config) == 0 && len(svc.configs) > 0 {
		config = svc.configs[0].Name
	}
	lemmatize, err := pipeline.NewWordLemmatizer(svc.params)
	if err != nil {
		return types.WordResult{}, err
	}
	return lemmatize(config, word, tag)
}
