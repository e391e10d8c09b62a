package pipeline

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/unicode/norm"

	"text2phenotype.com/morph/logger"
	"text2phenotype.com/morph/tokenizer"
	"text2phenotype.com/morph/types"
)

type DocumentReader func(in <-chan string) <-chan types.Sentence

// NewDocumentReader emits the sentences of every input text. A text holding a pre-tagged
// JSON document is read token by token, anything else is split into untokenized sentences.
func NewDocumentReader() DocumentReader {
	morphLogger := logger.NewLogger("Document reader")

	return func(in <-chan string) <-chan types.Sentence {
		out := make(chan types.Sentence)

		go func() {
			defer close(out)
			for text := range in {
				text = norm.NFC.String(text)
				doc, ok := parseDocument(text)
				if !ok {
					for _, sent := range tokenizer.SplitSentences(text) {
						out <- sent
					}
					continue
				}
				morphLogger.Debug().Int("sentences", len(doc.Sentences)).Msg("Reading pre-tagged document")
				for _, sent := range documentSentences(doc) {
					out <- sent
				}
			}
		}()

		return out
	}
}

func parseDocument(text string) (*types.Document, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	var doc types.Document
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil || doc.Sentences == nil {
		return nil, false
	}
	return &doc, true
}

// documentSentences builds sentences from pre-tagged tokens. Tokens without offsets are
// placed one space after the previous token.
func documentSentences(doc *types.Document) []types.Sentence {
	sentences := make([]types.Sentence, 0, len(doc.Sentences))
	var offset int32
	for _, docSent := range doc.Sentences {
		sent := types.Sentence{
			Index:  len(sentences),
			Tokens: make([]*types.Token, 0, len(docSent.Tokens)),
		}
		var texts []string
		for _, docToken := range docSent.Tokens {
			text := norm.NFC.String(docToken.Text)
			begin := offset
			if docToken.Begin != nil {
				begin = *docToken.Begin
			}
			end := begin + int32(len([]rune(text)))
			if docToken.End != nil {
				end = *docToken.End
			}
			token := &types.Token{
				Span: types.Span{Begin: begin, End: end, Text: text},
				Tag:  docToken.Tag,
			}
			tokenizer.Classify(token)
			sent.Tokens = append(sent.Tokens, token)
			texts = append(texts, text)
			offset = end + 1
		}
		if len(sent.Tokens) > 0 {
			sent.Begin = sent.Tokens[0].Begin
			sent.End = sent.Tokens[len(sent.Tokens)-1].End
		}
		sent.Text = strings.Join(texts, " ")
		sentences = append(sentences, sent)
	}
	return sentences
}
