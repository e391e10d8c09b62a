package lemmatizer

import "strings"

// Lemmatize returns the candidate lemmas of word using the resources of its category.
// It is total: when nothing applies the result is the resources' Fallback lemma.
func Lemmatize(word string, res *Resources) LemmaSet {
	form := Lower(word, res.Lang)

	// already a lemma
	if res.Index.Contains(form) {
		return LemmaSet{form}
	}

	var forms []string
	forms = append(forms, res.Exceptions[form]...)

	var oovForms []string
	if len(forms) == 0 {
		for _, rule := range res.Rules {
			if !strings.HasSuffix(form, rule.Old) {
				continue
			}
			candidate := form[:len(form)-len(rule.Old)] + rule.New
			switch {
			case candidate == "":
			case res.Index.Contains(candidate) || !IsAlpha(candidate):
				forms = append(forms, candidate)
			default:
				oovForms = append(oovForms, candidate)
			}
			// only the first matching suffix is ever applied
			break
		}
	}

	if len(forms) == 0 {
		forms = oovForms
	}
	if len(forms) == 0 {
		return LemmaSet{res.Fallback}
	}
	return newLemmaSet(forms)
}
