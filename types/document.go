package types

// Document is the pre-tagged input accepted in place of plain text.
type Document struct {
	Sentences []DocumentSentence `json:"sentences"`
}

type DocumentSentence struct {
	Tokens []DocumentToken `json:"tokens"`
}

type DocumentToken struct {
	Text  string `json:"text"`
	Tag   string `json:"tag"`
	Begin *int32 `json:"begin,omitempty"`
	End   *int32 `json:"end,omitempty"`
}
