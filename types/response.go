package types

type TokenLemmas struct {
	Span
	Tag      string   `json:"tag,omitempty"`
	Category string   `json:"category,omitempty"`
	Lemmas   []string `json:"lemmas"`
	IsStop   bool     `json:"isStop,omitempty"`
	Cached   bool     `json:"-"`
}

// LemmatizedSentence is one sentence as seen by one configuration.
type LemmatizedSentence struct {
	Span
	Index  int           `json:"-"`
	Tokens []TokenLemmas `json:"tokens"`
}

type LemmatizationResponse struct {
	DocId     string               `json:"docId"`
	Language  string               `json:"language"`
	Sentences []LemmatizedSentence `json:"sentences"`
}

type WordResult struct {
	Config   string   `json:"config"`
	Word     string   `json:"word"`
	Tag      string   `json:"tag,omitempty"`
	Category string   `json:"category,omitempty"`
	Lemmas   []string `json:"lemmas"`
}

type LanguageInfo struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Fallback    string   `json:"fallback"`
	Categories  []string `json:"categories"`
	Fingerprint string   `json:"fingerprint"`
}
