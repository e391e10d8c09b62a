package pipeline

import (
	"sync"

	"text2phenotype.com/morph/types"
)

type Lemmatizer func(in <-chan types.Sentence) <-chan types.LemmatizedSentence

// NewLemmatizer builds the lemmatizer stage of one configuration. Input sentences are
// shared with other configurations and only read.
func NewLemmatizer(cfg types.Configuration, analyzer *wordAnalyzer) Lemmatizer {
	allTokens := cfg.CheckFeature(types.AllTokensFeature)
	stopWords := cfg.CheckFeature(types.StopWordsFeature)

	return func(in <-chan types.Sentence) <-chan types.LemmatizedSentence {
		out := make(chan types.LemmatizedSentence)

		go func() {
			defer close(out)
			var wg sync.WaitGroup
			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					result := types.LemmatizedSentence{
						Span:   sent.Span,
						Index:  sent.Index,
						Tokens: make([]types.TokenLemmas, 0, len(sent.Tokens)),
					}
					for _, token := range sent.Tokens {
						if token.IsNewline || !(token.IsWord || allTokens) {
							continue
						}
						tag := token.Tag
						if len(tag) == 0 {
							tag = cfg.DefaultTag
						}
						res := analyzer.analyze(token.Text, tag)
						lemmas := types.TokenLemmas{
							Span:     token.Span,
							Tag:      tag,
							Category: res.category,
							Lemmas:   res.lemmas,
							Cached:   res.cached,
						}
						if stopWords {
							lemmas.IsStop = analyzer.lang.IsStopWord(token.Text)
						}
						result.Tokens = append(result.Tokens, lemmas)
					}
					out <- result
				}(sent)
			}
			wg.Wait()
		}()
		return out
	}
}
