package lemmatizer

import (
	"runtime"
	"sync"
)

type Word struct {
	Text string
	Tag  string
}

// LemmatizeBatch lemmatizes every word independently; result i belongs to words[i].
// workers <= 0 means one worker per CPU.
func LemmatizeBatch(words []Word, lang *Language, workers int) []LemmaSet {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(words) {
		workers = len(words)
	}

	results := make([]LemmaSet, len(words))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = lang.Lemmatize(words[i].Text, words[i].Tag)
			}
		}()
	}

	for i := range words {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
