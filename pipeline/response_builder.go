package pipeline

import (
	"sort"

	"text2phenotype.com/morph/types"
)

type Result struct {
	ConfigName string
	Data       interface{}
}

// NewLemmatizationResult collects the sentences of one configuration back into document order.
func NewLemmatizationResult() func(in <-chan types.LemmatizedSentence, cfg types.Configuration, request Request) <-chan Result {
	return func(in <-chan types.LemmatizedSentence, cfg types.Configuration, request Request) <-chan Result {
		out := make(chan Result)
		go func() {
			defer close(out)
			response := types.LemmatizationResponse{
				DocId:     request.Tid,
				Language:  cfg.Language,
				Sentences: make([]types.LemmatizedSentence, 0),
			}
			for sent := range in {
				response.Sentences = append(response.Sentences, sent)
			}
			sort.Slice(response.Sentences, func(i, j int) bool {
				return response.Sentences[i].Index < response.Sentences[j].Index
			})
			out <- Result{
				ConfigName: cfg.Name,
				Data:       response,
			}
		}()
		return out
	}
}
