package lemmatizer

import (
	"sort"

	"golang.org/x/text/language"
)

// Index is the set of canonical forms known for one grammatical category.
type Index map[string]bool

func (index Index) Contains(form string) bool {
	return index[form]
}

// ExceptionTable maps a lower-cased surface form to its irregular lemmas.
// A key with an empty list is kept as is: it yields no candidates, so rules still run.
type ExceptionTable map[string][]string

type Rule struct {
	Old string
	New string
}

// RuleTable is tried in order and the first rule whose Old suffix matches decides the outcome.
type RuleTable []Rule

// Resources is the category-scoped resource triple together with the sentinel lemma
// returned for words nothing else could analyze.
type Resources struct {
	Index      Index
	Exceptions ExceptionTable
	Rules      RuleTable
	Fallback   string
	Lang       language.Tag
}

type LemmaSet []string

func (set LemmaSet) Contains(lemma string) bool {
	for _, l := range set {
		if l == lemma {
			return true
		}
	}
	return false
}

func newLemmaSet(forms []string) LemmaSet {
	seen := make(map[string]bool, len(forms))
	set := make(LemmaSet, 0, len(forms))
	for _, form := range forms {
		if seen[form] {
			continue
		}
		seen[form] = true
		set = append(set, form)
	}
	sort.Strings(set)
	return set
}
