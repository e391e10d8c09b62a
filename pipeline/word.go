package pipeline

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"text2phenotype.com/morph/lemmatizer"
	"text2phenotype.com/morph/types"
)

type WordLemmatizer func(config string, word string, tag string) (types.WordResult, error)

// NewWordLemmatizer lemmatizes single words the way the pipeline does for the named configuration.
func NewWordLemmatizer(params LemmatizationParams) (WordLemmatizer, error) {
	analyzers, err := params.analyzers()
	if err != nil {
		return nil, err
	}
	configs := configurationsByName(params.Configurations)

	return func(config string, word string, tag string) (types.WordResult, error) {
		cfg, ok := configs[config]
		if !ok {
			return types.WordResult{}, fmt.Errorf("%w: %q", ErrUnknownConfiguration, config)
		}
		if len(tag) == 0 {
			tag = cfg.DefaultTag
		}
		word = norm.NFC.String(word)
		res := analyzers[config].analyze(word, tag)
		return types.WordResult{
			Config:   config,
			Word:     word,
			Tag:      tag,
			Category: res.category,
			Lemmas:   res.lemmas,
		}, nil
	}, nil
}

type BatchLemmatizer func(config string, words []lemmatizer.Word) ([]types.WordResult, error)

// NewBatchLemmatizer lemmatizes independent words in parallel without the lemma cache.
func NewBatchLemmatizer(params LemmatizationParams) (BatchLemmatizer, error) {
	analyzers, err := params.analyzers()
	if err != nil {
		return nil, err
	}
	configs := configurationsByName(params.Configurations)

	return func(config string, words []lemmatizer.Word) ([]types.WordResult, error) {
		cfg, ok := configs[config]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownConfiguration, config)
		}
		normalized := make([]lemmatizer.Word, len(words))
		for i, w := range words {
			normalized[i] = lemmatizer.Word{Text: norm.NFC.String(w.Text), Tag: w.Tag}
			if len(normalized[i].Tag) == 0 {
				normalized[i].Tag = cfg.DefaultTag
			}
		}
		lemmas := lemmatizer.LemmatizeBatch(normalized, analyzers[config].lang, params.BatchWorkers)

		results := make([]types.WordResult, len(words))
		for i, w := range normalized {
			results[i] = types.WordResult{
				Config: config,
				Word:   w.Text,
				Tag:    w.Tag,
				Lemmas: lemmas[i],
			}
			if cat, ok := lemmatizer.CategoryOf(w.Tag); ok {
				results[i].Category = string(cat)
			}
		}
		return results, nil
	}, nil
}

func configurationsByName(cfgs []types.Configuration) map[string]types.Configuration {
	byName := make(map[string]types.Configuration, len(cfgs))
	for _, cfg := range cfgs {
		byName[cfg.Name] = cfg
	}
	return byName
}
