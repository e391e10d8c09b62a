package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"text2phenotype.com/morph/cache"
	"text2phenotype.com/morph/lemmatizer"
)

type analysis struct {
	category string
	lemmas   lemmatizer.LemmaSet
	cached   bool
}

// wordAnalyzer lemmatizes words of one language, going through the lemma cache for
// categories served by the rule resources.
type wordAnalyzer struct {
	lang         *lemmatizer.Language
	cache        cache.LemmaCache
	cacheTimeout time.Duration
	log          zerolog.Logger
}

func (a *wordAnalyzer) analyze(word string, tag string) analysis {
	cat, ok := lemmatizer.CategoryOf(tag)
	if !ok {
		return analysis{lemmas: a.lang.Lemmatize(word, tag)}
	}
	result := analysis{category: string(cat)}
	if a.cache == nil || !a.lang.HasCategory(cat) {
		result.lemmas = a.lang.LemmatizeCategory(word, cat)
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cacheTimeout)
	defer cancel()
	key := cache.Key(a.lang.Fingerprint, result.category, lemmatizer.Lower(word, a.lang.Tag))
	lemmas, hit, err := a.cache.Get(ctx, key)
	if err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("Lemma cache lookup failed")
	}
	if hit && len(lemmas) > 0 {
		result.lemmas = lemmas
		result.cached = true
		return result
	}
	result.lemmas = a.lang.LemmatizeCategory(word, cat)
	if err := a.cache.Set(ctx, key, result.lemmas); err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("Failed to store lemmas in cache")
	}
	return result
}
