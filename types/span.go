package types

// Span offsets are rune offsets into the request text.
type Span struct {
	Begin int32  `json:"begin"`
	End   int32  `json:"end"`
	Text  string `json:"text"`
}
