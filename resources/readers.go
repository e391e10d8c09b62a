package resources

import (
	"bufio"
	"fmt"
	"hash"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"text2phenotype.com/morph/lemmatizer"
)

const columnSeparator = "|"

// lineReader walks the meaningful lines of a resource file and feeds every byte into the
// language fingerprint.
type lineReader struct {
	name    string
	scanner *bufio.Scanner
	line    int
	text    string
}

func newLineReader(name string, r io.Reader, fingerprint hash.Hash64) *lineReader {
	_, _ = fingerprint.Write([]byte(name))
	scanner := bufio.NewScanner(io.TeeReader(r, fingerprint))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &lineReader{name: name, scanner: scanner}
}

func (r *lineReader) next() bool {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimRight(r.scanner.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}
		r.text = text
		return true
	}
	return false
}

func (r *lineReader) err() error {
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", r.name, err)
	}
	return nil
}

func (r *lineReader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d: %s", r.name, r.line, fmt.Sprintf(format, args...))
}

func readIndex(r *lineReader, lower func(string) string) (lemmatizer.Index, error) {
	result := make(lemmatizer.Index)
	for r.next() {
		result[lower(strings.TrimSpace(r.text))] = true
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return result, nil
}

// readExceptions reads "form|lemma1|lemma2" lines. "form|" declares a form with no lemmas.
// Repeated forms accumulate their lemmas.
func readExceptions(r *lineReader, lower func(string) string) (lemmatizer.ExceptionTable, error) {
	result := make(lemmatizer.ExceptionTable)
	for r.next() {
		columns := strings.Split(r.text, columnSeparator)
		if len(columns) < 2 {
			return nil, r.errorf("exception should have at least 2 columns")
		}
		form := lower(strings.TrimSpace(columns[0]))
		lemmas := result[form]
		if lemmas == nil {
			lemmas = []string{}
		}
		for _, lemma := range columns[1:] {
			if lemma = strings.TrimSpace(lemma); lemma != "" {
				lemmas = append(lemmas, norm.NFC.String(lemma))
			}
		}
		result[form] = lemmas
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return result, nil
}

// readRules reads "old|new" lines keeping the file order. Suffixes are not trimmed, so an
// empty column is a valid empty suffix. Both sides are normalized like the index.
func readRules(r *lineReader, lower func(string) string) (lemmatizer.RuleTable, error) {
	var result lemmatizer.RuleTable
	for r.next() {
		columns := strings.Split(r.text, columnSeparator)
		if len(columns) != 2 {
			return nil, r.errorf("rule should have 2 columns, got %d", len(columns))
		}
		result = append(result, lemmatizer.Rule{Old: lower(columns[0]), New: lower(columns[1])})
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return result, nil
}

func readLookup(r *lineReader, lower func(string) string) (map[string]string, error) {
	result := make(map[string]string)
	for r.next() {
		columns := strings.Split(r.text, columnSeparator)
		if len(columns) != 2 {
			return nil, r.errorf("lookup entry should have 2 columns, got %d", len(columns))
		}
		result[lower(strings.TrimSpace(columns[0]))] = norm.NFC.String(strings.TrimSpace(columns[1]))
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return result, nil
}
