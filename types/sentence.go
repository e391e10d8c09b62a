package types

type Sentence struct {
	Span
	// Index is the position of the sentence in its document.
	Index  int
	Tokens []*Token
}

// Words returns the word tokens of the sentence.
func (sent *Sentence) Words() []*Token {
	words := make([]*Token, 0, len(sent.Tokens))
	for _, token := range sent.Tokens {
		if token.IsWord {
			words = append(words, token)
		}
	}
	return words
}
