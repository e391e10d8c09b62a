package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"text2phenotype.com/morph/cache"
	"text2phenotype.com/morph/lemmatizer"
	"text2phenotype.com/morph/logger"
	"text2phenotype.com/morph/types"
)

var ErrUnknownConfiguration = errors.New("unknown configuration")

const defaultCacheTimeout = 200 * time.Millisecond

type LemmatizationParams struct {
	Configurations []types.Configuration            `json:"configurations"`
	Languages      map[string]*lemmatizer.Language `json:"-"`
	Cache          cache.LemmaCache                `json:"-"`
	CacheTimeout   time.Duration                   `json:"cache_timeout"`
	BatchWorkers   int                             `json:"batch_workers"`
}

// analyzers checks that every configuration has its language loaded.
func (params LemmatizationParams) analyzers() (map[string]*wordAnalyzer, error) {
	timeout := params.CacheTimeout
	if timeout <= 0 {
		timeout = defaultCacheTimeout
	}
	analyzers := make(map[string]*wordAnalyzer, len(params.Configurations))
	for _, cfg := range params.Configurations {
		lang, ok := params.Languages[cfg.Language]
		if !ok || lang == nil {
			return nil, fmt.Errorf("configuration %s: language %q is not loaded", cfg.Name, cfg.Language)
		}
		analyzers[cfg.Name] = &wordAnalyzer{
			lang:         lang,
			cache:        params.Cache,
			cacheTimeout: timeout,
			log: logger.NewLogger("Word analyzer").With().
				Str("config_name", cfg.Name).
				Str("language", lang.Code).
				Logger(),
		}
	}
	return analyzers, nil
}

func Lemmatization(params LemmatizationParams) (Pipeline, error) {
	morphLogger := logger.NewLogger("Lemmatization pipeline")
	errLogger := morphLogger.With().Caller().Logger()
	morphLogger.Info().
		Interface("params", params).
		Msg("Starting lemmatization pipeline (see parameters in 'params' field)")

	analyzers, err := params.analyzers()
	if err != nil {
		errLogger.Err(err).Msg("Failed to create word analyzers")
		return nil, err
	}
	if len(params.Configurations) == 0 {
		return nil, errors.New("no configurations")
	}

	reader := NewDocumentReader()
	tokenizer := NewTokenizer()
	splitter := NewSentenceChannelSplitter(len(params.Configurations))
	lemmatizers := make([]Lemmatizer, len(params.Configurations))
	for i, cfg := range params.Configurations {
		lemmatizers[i] = NewLemmatizer(cfg, analyzers[cfg.Name])
	}
	lemmatizationResult := NewLemmatizationResult()

	return func(request Request) <-chan string {
		responseChan := make(chan string, 1)
		pplnLog := morphLogger.With().Str("tid", request.Tid).Logger()
		pplnLog.Info().Msg("Started lemmatization pipeline")

		go func() {
			defer close(responseChan)
			in := make(chan string)
			split := splitter(tokenizer(reader(in)))

			resultChannel := make(chan Result)
			for i, cfg := range params.Configurations {
				connect(lemmatizationResult(lemmatizers[i](split[i]), cfg, request), resultChannel)
			}

			in <- request.Text
			close(in)

			response := make(map[string]interface{}, len(params.Configurations))
			for range params.Configurations {
				res := <-resultChannel
				pplnLog.Info().
					Str("config_name", res.ConfigName).
					Msg("Finished pipeline for configuration")
				response[res.ConfigName] = res.Data
			}

			buf, err := json.Marshal(response)
			if err != nil {
				pplnLog.Err(err).Caller().Msg("Failed to marshal response")
				return
			}
			pplnLog.Info().Msg("Finished lemmatization pipeline")
			responseChan <- string(buf)
		}()

		return responseChan
	}, nil
}

func connect(from <-chan Result, to chan<- Result) {
	go func() {
		for v := range from {
			to <- v
		}
	}()
}
