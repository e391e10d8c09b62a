package pipeline

import (
	"sync"

	"text2phenotype.com/morph/tokenizer"
	"text2phenotype.com/morph/types"
)

type Tokenizer func(in <-chan types.Sentence) <-chan types.Sentence

// NewTokenizer tokenizes sentences that arrive without tokens.
func NewTokenizer() Tokenizer {
	return func(in <-chan types.Sentence) <-chan types.Sentence {
		out := make(chan types.Sentence)

		go func() {
			defer close(out)
			var wg sync.WaitGroup
			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					if sent.Tokens == nil {
						tokenizer.Tokenize(&sent)
					}
					out <- sent
				}(sent)
			}
			wg.Wait()
		}()

		return out
	}
}
