package tokenizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/morph/types"
)

func sentenceTexts(sentences []types.Sentence) []string {
	texts := make([]string, len(sentences))
	for i, sent := range sentences {
		texts[i] = sent.Text
	}
	return texts
}

func TestSplitSentences(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Empty", "", []string{}},
		{"Spaces only", "  \n ", []string{}},
		{"Single", "Τα σύμβολα", []string{"Τα σύμβολα"}},
		{
			"Terminators",
			"Τι κάνεις; Καλά! Εσύ?  Ωραία...",
			[]string{"Τι κάνεις;", "Καλά!", "Εσύ?", "Ωραία..."},
		},
		{"Decimal point", "Πήρε 3.5 κιλά. Τέλος", []string{"Πήρε 3.5 κιλά.", "Τέλος"}},
		{"Closing quote", "Είπε «ναι.» Μετά", []string{"Είπε «ναι.»", "Μετά"}},
		{"Blank line", "Τίτλος\n\nΚείμενο εδώ", []string{"Τίτλος", "Κείμενο εδώ"}},
		{"Single newline", "γραμμή\nσυνέχεια", []string{"γραμμή\nσυνέχεια"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := sentenceTexts(SplitSentences(tc.text))
			if diff := cmp.Diff(tc.expected, actual); diff != "" {
				t.Errorf("SplitSentences(%q) mismatch (-want +got):\n%s", tc.text, diff)
			}
		})
	}
}

func TestSplitSentencesSpans(t *testing.T) {
	text := "Ένα. Δύο"
	sentences := SplitSentences(text)
	require.Len(t, sentences, 2)
	require.Equal(t, types.Span{Begin: 0, End: 4, Text: "Ένα."}, sentences[0].Span)
	require.Equal(t, types.Span{Begin: 5, End: 8, Text: "Δύο"}, sentences[1].Span)
	require.Equal(t, 1, sentences[1].Index)
}

func TestTokenize(t *testing.T) {
	sent := types.Sentence{Span: types.Span{Begin: 10, End: 36, Text: "Τα COVID-19 σύμβολα, 42 €\nτέλος"}}
	Tokenize(&sent)

	var texts []string
	for _, token := range sent.Tokens {
		texts = append(texts, token.Text)
	}
	require.Equal(t, []string{"Τα", "COVID-19", "σύμβολα", ",", "42", "€", "\n", "τέλος"}, texts)

	require.True(t, sent.Tokens[0].IsWord)
	require.Equal(t, "Xx", sent.Tokens[0].Shape)
	require.Equal(t, types.Span{Begin: 10, End: 12, Text: "Τα"}, sent.Tokens[0].Span)

	require.True(t, sent.Tokens[1].IsWord)
	require.False(t, sent.Tokens[1].IsNumber)
	require.True(t, sent.Tokens[3].IsPunct)
	require.False(t, sent.Tokens[3].IsWord)
	require.True(t, sent.Tokens[4].IsNumber)
	require.False(t, sent.Tokens[4].IsWord)
	require.True(t, sent.Tokens[5].IsSymbol)
	require.True(t, sent.Tokens[6].IsNewline)

	require.Len(t, sent.Words(), 4)
}

func TestTokenizeCombiningMarks(t *testing.T) {
	sent := types.Sentence{Span: types.Span{Text: "\u03b1\u0301λφα"}}
	Tokenize(&sent)
	require.Len(t, sent.Tokens, 1)
	require.True(t, sent.Tokens[0].IsWord)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		text     string
		expected types.Token
	}{
		{"Λόγος", types.Token{IsWord: true, Shape: "Xxxxx"}},
		{"2021", types.Token{IsNumber: true, Shape: "dddd"}},
		{",", types.Token{IsPunct: true, Shape: "x"}},
		{"...", types.Token{IsPunct: true, Shape: "xxx"}},
		{"€", types.Token{IsSymbol: true, Shape: "x"}},
		{"\n", types.Token{IsNewline: true, Shape: "x"}},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			token := types.Token{Span: types.Span{Text: c.text}}
			Classify(&token)
			c.expected.Span = token.Span
			require.Equal(t, c.expected, token)
		})
	}
}
