package lemmatizer

import (
	"errors"
	"fmt"
	"strings"
)

type Category string

const (
	Noun  Category = "noun"
	Verb  Category = "verb"
	Adj   Category = "adj"
	Adv   Category = "adv"
	Det   Category = "det"
	Pron  Category = "pron"
	Punct Category = "punct"
)

var ErrUnknownCategory = errors.New("unknown category")

var Categories = []Category{Noun, Verb, Adj, Adv, Det, Pron, Punct}

// Penn Treebank prefixes and tags
const (
	NN  = "NN"
	PRP = "PRP"
	WP  = "WP"
	VB  = "VB"
	MD  = "MD"
	JJ  = "JJ"
	RB  = "RB"
	WRB = "WRB"
	DT  = "DT"
	PDT = "PDT"
	WDT = "WDT"
)

var ptbPunct = []string{".", ",", ":", "``", "''", "-LRB-", "-RRB-", "HYPH", "NFP", "#", "$"}

func ParseCategory(name string) (Category, error) {
	for _, cat := range Categories {
		if strings.EqualFold(name, string(cat)) {
			return cat, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// CategoryOf maps a coarse grammatical tag onto a category. Universal Dependencies tags,
// Penn Treebank tags and the category names themselves are recognized.
func CategoryOf(tag string) (Category, bool) {
	if cat, err := ParseCategory(tag); err == nil {
		return cat, true
	}

	tag = strings.ToUpper(tag)
	switch {
	case AnyOf(tag, "NOUN"), StartsWithAny(tag, NN):
		return Noun, true
	case AnyOf(tag, "VERB", "AUX", MD), StartsWithAny(tag, VB):
		return Verb, true
	case AnyOf(tag, "ADJ"), StartsWithAny(tag, JJ):
		return Adj, true
	case AnyOf(tag, "ADV", WRB), StartsWithAny(tag, RB):
		return Adv, true
	case AnyOf(tag, "DET", DT, PDT, WDT):
		return Det, true
	case AnyOf(tag, "PRON"), StartsWithAny(tag, PRP, WP):
		return Pron, true
	case AnyOf(tag, "PUNCT"), AnyOf(tag, ptbPunct...):
		return Punct, true
	}
	return "", false
}
