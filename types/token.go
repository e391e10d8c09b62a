package types

import (
	"strings"
	"unicode"
)

type Token struct {
	Span
	Tag       string
	IsPunct   bool
	IsWord    bool
	IsSymbol  bool
	IsNumber  bool
	IsNewline bool
	Shape     string
}

func GetShape(txt string) string {
	var sb strings.Builder
	for _, r := range txt {
		switch {
		case unicode.IsDigit(r):
			sb.WriteRune('d')
		case unicode.IsUpper(r):
			sb.WriteRune('X')
		default:
			sb.WriteRune('x')
		}
	}

	return sb.String()
}
