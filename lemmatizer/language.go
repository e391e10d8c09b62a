package lemmatizer

import "golang.org/x/text/language"

// Language bundles the per-category resources of one language.
type Language struct {
	Code       string
	Name       string
	Fallback   string
	Tag        language.Tag
	Categories map[Category]*Resources
	// Lookup serves words whose category has no rule resources.
	Lookup    map[string]string
	StopWords Index
	// Fingerprint identifies the data the language was built from.
	Fingerprint uint64
}

// Lemmatize resolves tag to a category and lemmatizes word with its resources.
// Words of categories the language has no resources for go through the lookup table
// and otherwise come back lower-cased.
func (lang *Language) Lemmatize(word string, tag string) LemmaSet {
	cat, ok := CategoryOf(tag)
	if !ok {
		return lang.lookup(word)
	}
	return lang.LemmatizeCategory(word, cat)
}

func (lang *Language) LemmatizeCategory(word string, cat Category) LemmaSet {
	res, ok := lang.Categories[cat]
	if !ok || res == nil {
		return lang.lookup(word)
	}
	return Lemmatize(word, res)
}

func (lang *Language) HasCategory(cat Category) bool {
	res, ok := lang.Categories[cat]
	return ok && res != nil
}

func (lang *Language) IsStopWord(word string) bool {
	return lang.StopWords.Contains(Lower(word, lang.Tag))
}

func (lang *Language) lookup(word string) LemmaSet {
	form := Lower(word, lang.Tag)
	if lemma, ok := lang.Lookup[form]; ok {
		return LemmaSet{lemma}
	}
	return LemmaSet{form}
}
