package pipeline

import (
	"sync"

	"text2phenotype.com/morph/types"
)

// NewSentenceChannelSplitter copies every sentence into n channels, one per configuration.
// Sentences are shared between the branches and must not be modified downstream.
func NewSentenceChannelSplitter(n int) func(in <-chan types.Sentence) []chan types.Sentence {
	return func(in <-chan types.Sentence) []chan types.Sentence {
		outs := make([]chan types.Sentence, n)
		for i := range outs {
			outs[i] = make(chan types.Sentence)
		}

		go func() {
			defer closeAllChannels(outs)
			var wg sync.WaitGroup
			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					for _, out := range outs {
						out <- sent
					}
				}(sent)
			}
			wg.Wait()
		}()
		return outs
	}
}

func closeAllChannels(outs []chan types.Sentence) {
	for _, out := range outs {
		close(out)
	}
}
