package tokenizer

import (
	"unicode"

	"text2phenotype.com/morph/types"
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)
}

// joiners stay inside a word when both neighbours are word runes, e.g. "covid-19"
func isJoiner(r rune) bool {
	switch r {
	case '-', '\'', '’', '‐':
		return true
	}
	return false
}

// Tokenize fills sent.Tokens from sent.Text. Token spans are document offsets.
func Tokenize(sent *types.Sentence) {
	runes := []rune(sent.Text)
	tokens := make([]*types.Token, 0, len(runes)/4+1)

	newToken := func(begin int, end int) *types.Token {
		text := string(runes[begin:end])
		return &types.Token{
			Span: types.Span{
				Begin: sent.Begin + int32(begin),
				End:   sent.Begin + int32(end),
				Text:  text,
			},
			Shape: types.GetShape(text),
		}
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\n':
			token := newToken(i, i+1)
			token.IsNewline = true
			tokens = append(tokens, token)
			i++
		case unicode.IsSpace(r):
			i++
		case isWordRune(r):
			end := i + 1
			for end < len(runes) {
				if isWordRune(runes[end]) {
					end++
					continue
				}
				if isJoiner(runes[end]) && end+1 < len(runes) && isWordRune(runes[end+1]) {
					end += 2
					continue
				}
				break
			}
			token := newToken(i, end)
			token.IsWord, token.IsNumber = classifyWord(runes[i:end])
			tokens = append(tokens, token)
			i = end
		default:
			token := newToken(i, i+1)
			token.IsPunct = unicode.IsPunct(r)
			token.IsSymbol = !token.IsPunct
			tokens = append(tokens, token)
			i++
		}
	}

	sent.Tokens = tokens
}

func classifyWord(runes []rune) (isWord bool, isNumber bool) {
	isNumber = true
	for _, r := range runes {
		if unicode.IsLetter(r) {
			isWord = true
		}
		if !unicode.IsDigit(r) {
			isNumber = false
		}
	}
	return isWord, isNumber
}

// Classify sets the kind flags of a token built outside Tokenize, e.g. from a pre-tagged document.
func Classify(token *types.Token) {
	runes := []rune(token.Text)
	token.Shape = types.GetShape(token.Text)
	switch {
	case len(runes) == 0:
	case token.Text == "\n":
		token.IsNewline = true
	case isWordRune(runes[0]):
		token.IsWord, token.IsNumber = classifyWord(runes)
	case len(runes) == 1:
		token.IsPunct = unicode.IsPunct(runes[0])
		token.IsSymbol = !token.IsPunct
	default:
		token.IsPunct = true
		for _, r := range runes {
			token.IsPunct = token.IsPunct && unicode.IsPunct(r)
		}
		token.IsSymbol = !token.IsPunct
	}
}
