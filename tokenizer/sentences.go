package tokenizer

import (
	"unicode"

	"text2phenotype.com/morph/types"
)

const greekQuestionMark = '\u037e'

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', ';', greekQuestionMark, '…':
		return true
	}
	return false
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '»', '”', '’':
		return true
	}
	return false
}

// SplitSentences cuts text after terminal punctuation followed by white space and at blank
// lines. Spans are rune offsets into text.
func SplitSentences(text string) []types.Sentence {
	runes := []rune(text)
	var sentences []types.Sentence

	emit := func(begin int, end int) {
		for begin < end && unicode.IsSpace(runes[begin]) {
			begin++
		}
		for end > begin && unicode.IsSpace(runes[end-1]) {
			end--
		}
		if begin == end {
			return
		}
		sentences = append(sentences, types.Sentence{
			Span: types.Span{
				Begin: int32(begin),
				End:   int32(end),
				Text:  string(runes[begin:end]),
			},
			Index: len(sentences),
		})
	}

	begin := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\n' && i+1 < len(runes) && isBlankLineAhead(runes, i+1):
			emit(begin, i)
			begin = i + 1
		case isTerminator(r):
			end := i + 1
			for end < len(runes) && (isTerminator(runes[end]) || isClosing(runes[end])) {
				end++
			}
			if end == len(runes) || unicode.IsSpace(runes[end]) {
				emit(begin, end)
				begin = end
			}
			i = end - 1
		}
	}
	emit(begin, len(runes))

	return sentences
}

func isBlankLineAhead(runes []rune, from int) bool {
	for i := from; i < len(runes); i++ {
		switch runes[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return false
}
