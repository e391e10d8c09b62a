package resources

import (
	"errors"
	"fmt"
	"hash"
	"io"
	"path"
	"sync"

	"github.com/rs/zerolog"
	"github.com/twmb/murmur3"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"text2phenotype.com/morph/lemmatizer"
	"text2phenotype.com/morph/logger"
)

const (
	manifestFile  = "language.yaml"
	lookupFile    = "lookup.bsv"
	stopWordsFile = "stop_words.txt"
)

// Manifest is the language.yaml of a language folder.
type Manifest struct {
	Code       string   `yaml:"code"`
	Name       string   `yaml:"name"`
	Locale     string   `yaml:"locale"`
	Fallback   string   `yaml:"fallback"`
	Categories []string `yaml:"categories"`
}

var ErrNoLanguages = errors.New("no languages requested")

// resourceLower brings resource entries to the composed lower-case form lookups use.
func resourceLower(tag language.Tag) func(string) string {
	return func(s string) string {
		return lemmatizer.Lower(norm.NFC.String(s), tag)
	}
}

func indexFile(cat lemmatizer.Category) string {
	return fmt.Sprintf("%s_index.txt", cat)
}

func exceptionsFile(cat lemmatizer.Category) string {
	return fmt.Sprintf("%s_exc.bsv", cat)
}

func rulesFile(cat lemmatizer.Category) string {
	return fmt.Sprintf("%s_rule.bsv", cat)
}

type languageLoader struct {
	src         Source
	code        string
	fingerprint hash.Hash64
	lower       func(string) string
	log         zerolog.Logger
}

// LoadLanguage reads the resources of one language folder.
func LoadLanguage(src Source, code string) (*lemmatizer.Language, error) {
	loader := languageLoader{
		src:         src,
		code:        code,
		fingerprint: murmur3.New64(),
		log:         logger.NewLogger("Resources").With().Str("language", code).Logger(),
	}
	return loader.load()
}

// LoadLanguages loads languages concurrently; the first failure is returned.
func LoadLanguages(src Source, codes []string) (map[string]*lemmatizer.Language, error) {
	type loaded struct {
		lang *lemmatizer.Language
		err  error
	}

	if len(codes) == 0 {
		return nil, ErrNoLanguages
	}

	results := make(chan loaded, len(codes))
	var wg sync.WaitGroup
	seen := make(map[string]bool)
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			lang, err := LoadLanguage(src, code)
			results <- loaded{lang, err}
		}(code)
	}
	wg.Wait()
	close(results)

	languages := make(map[string]*lemmatizer.Language, len(seen))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		languages[res.lang.Code] = res.lang
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return languages, nil
}

func (loader *languageLoader) load() (*lemmatizer.Language, error) {
	manifest, err := loader.readManifest()
	if err != nil {
		return nil, err
	}

	tag := language.Und
	if manifest.Locale != "" {
		if tag, err = language.Parse(manifest.Locale); err != nil {
			return nil, fmt.Errorf("language %s: bad locale %q: %w", loader.code, manifest.Locale, err)
		}
	}
	loader.lower = resourceLower(tag)

	lang := lemmatizer.Language{
		Code:       loader.code,
		Name:       manifest.Name,
		Fallback:   manifest.Fallback,
		Tag:        tag,
		Categories: make(map[lemmatizer.Category]*lemmatizer.Resources, len(manifest.Categories)),
	}

	for _, name := range manifest.Categories {
		cat, err := lemmatizer.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", loader.code, err)
		}
		res, err := loader.readCategory(cat)
		if err != nil {
			return nil, err
		}
		res.Fallback = manifest.Fallback
		res.Lang = tag
		lang.Categories[cat] = res
	}

	if lang.Lookup, err = loader.readLookup(); err != nil {
		return nil, err
	}
	if lang.StopWords, err = loader.readStopWords(); err != nil {
		return nil, err
	}
	lang.Fingerprint = loader.fingerprint.Sum64()

	loader.log.Info().
		Int("categories", len(lang.Categories)).
		Int("lookup_entries", len(lang.Lookup)).
		Int("stop_words", len(lang.StopWords)).
		Uint64("fingerprint", lang.Fingerprint).
		Msg("Loaded language resources")
	return &lang, nil
}

func (loader *languageLoader) readManifest() (*Manifest, error) {
	f, err := loader.src.Open(path.Join(loader.code, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("language %s: %w", loader.code, err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("language %s: %w", loader.code, err)
	}
	_, _ = loader.fingerprint.Write(buf)

	var manifest Manifest
	if err := yaml.Unmarshal(buf, &manifest); err != nil {
		return nil, fmt.Errorf("language %s: %s: %w", loader.code, manifestFile, err)
	}
	if manifest.Code != "" && manifest.Code != loader.code {
		return nil, fmt.Errorf("language %s: manifest declares code %q", loader.code, manifest.Code)
	}
	if manifest.Fallback == "" {
		return nil, fmt.Errorf("language %s: fallback lemma is required", loader.code)
	}
	return &manifest, nil
}

func (loader *languageLoader) readCategory(cat lemmatizer.Category) (*lemmatizer.Resources, error) {
	var res lemmatizer.Resources

	err := loader.withFile(indexFile(cat), true, func(r *lineReader) (err error) {
		res.Index, err = readIndex(r, loader.lower)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = loader.withFile(exceptionsFile(cat), false, func(r *lineReader) (err error) {
		res.Exceptions, err = readExceptions(r, loader.lower)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = loader.withFile(rulesFile(cat), false, func(r *lineReader) (err error) {
		res.Rules, err = readRules(r, loader.lower)
		return err
	})
	if err != nil {
		return nil, err
	}

	loader.log.Debug().
		Str("category", string(cat)).
		Int("index", len(res.Index)).
		Int("exceptions", len(res.Exceptions)).
		Int("rules", len(res.Rules)).
		Msg("Loaded category resources")
	return &res, nil
}

func (loader *languageLoader) readLookup() (lookup map[string]string, err error) {
	err = loader.withFile(lookupFile, false, func(r *lineReader) (err error) {
		lookup, err = readLookup(r, loader.lower)
		return err
	})
	return lookup, err
}

func (loader *languageLoader) readStopWords() (stopWords lemmatizer.Index, err error) {
	err = loader.withFile(stopWordsFile, false, func(r *lineReader) (err error) {
		stopWords, err = readIndex(r, loader.lower)
		return err
	})
	return stopWords, err
}

// withFile opens name inside the language folder. Optional files that do not exist are skipped.
func (loader *languageLoader) withFile(name string, required bool, read func(r *lineReader) error) error {
	fullName := path.Join(loader.code, name)
	f, err := loader.src.Open(fullName)
	if err != nil {
		if !required && isNotExist(err) {
			loader.log.Debug().Str("file", fullName).Msg("Optional resource file is missing")
			return nil
		}
		return fmt.Errorf("language %s: %w", loader.code, err)
	}
	defer f.Close()

	return read(newLineReader(fullName, f, loader.fingerprint))
}
