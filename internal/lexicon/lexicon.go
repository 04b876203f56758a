// Package lexicon provides an in-memory German full-form lexicon that serves
// as both tagger and synthesizer. It is loaded once and never modified, so a
// single instance can be shared by all goroutines.
package lexicon

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/typoutil"
	"github.com/gcbaptista/go-grammar-checker/model"
)

//go:embed data/lexicon.yaml
var embeddedLexicon []byte

const resourceName = "lexicon"

var numberPattern = regexp.MustCompile(`^\d+([.,]\d+)?$`)

// form is one inflected form of a lemma with a single tag
type form struct {
	text string
	tag  string
}

// Lexicon maps word forms to readings and lemmas back to their forms
type Lexicon struct {
	readings map[string][]model.Reading
	lemmas   map[string][]form
	patterns sync.Map // string -> *regexp.Regexp
}

type fileFormat struct {
	Entries []struct {
		Lemma string    `yaml:"lemma"`
		Forms yaml.Node `yaml:"forms"`
	} `yaml:"entries"`
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the lexicon embedded in the binary. It is parsed on first use.
func Default() (*Lexicon, error) {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = Load(bytes.NewReader(embeddedLexicon))
	})
	return defaultLex, defaultErr
}

// LoadFile reads a lexicon from a YAML file on disk.
func LoadFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewResourceError(resourceName, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a lexicon in YAML format:
//
//	entries:
//	  - lemma: "Haus"
//	    forms:
//	      "Haus": ["SUB:NOM:SIN:NEU", "SUB:AKK:SIN:NEU"]
//
// Form order is preserved so synthesis results are deterministic.
func Load(r io.Reader) (*Lexicon, error) {
	var ff fileFormat
	if err := yaml.NewDecoder(r).Decode(&ff); err != nil {
		return nil, errors.NewResourceError(resourceName, err)
	}
	if len(ff.Entries) == 0 {
		return nil, errors.NewResourceError(resourceName, fmt.Errorf("no entries"))
	}

	lex := &Lexicon{
		readings: make(map[string][]model.Reading),
		lemmas:   make(map[string][]form),
	}
	formCount := 0
	for i, entry := range ff.Entries {
		if entry.Lemma == "" {
			return nil, errors.NewResourceError(resourceName, fmt.Errorf("entry %d has no lemma", i))
		}
		if entry.Forms.Kind != yaml.MappingNode {
			return nil, errors.NewResourceError(resourceName, fmt.Errorf("entry '%s': forms must be a mapping", entry.Lemma))
		}
		content := entry.Forms.Content
		for j := 0; j+1 < len(content); j += 2 {
			text := content[j].Value
			var tags []string
			if err := content[j+1].Decode(&tags); err != nil {
				return nil, errors.NewResourceError(resourceName, fmt.Errorf("entry '%s', form '%s': %w", entry.Lemma, text, err))
			}
			formCount++
			for _, tag := range tags {
				lex.readings[text] = append(lex.readings[text], model.Reading{Lemma: entry.Lemma, POSTag: tag})
				lex.lemmas[entry.Lemma] = append(lex.lemmas[entry.Lemma], form{text: text, tag: tag})
			}
		}
	}

	slog.Info("Lexicon loaded",
		slog.Int("lemmas", len(lex.lemmas)),
		slog.Int("forms", formCount))
	return lex, nil
}

// Lookup returns the readings of a word form exactly as written.
func (l *Lexicon) Lookup(word string) ([]model.Reading, error) {
	readings, ok := l.readings[word]
	if !ok {
		return nil, errors.NewLookupError(word)
	}
	return append([]model.Reading(nil), readings...), nil
}

// Tag analyzes the words of one sentence. Sentence-initial words and words after
// an opening quote are also looked up in lowercase. Hyphenated compounds fall
// back to their last part. Unknown words get one untagged reading.
func (l *Lexicon) Tag(words []string) ([][]model.Reading, error) {
	if l == nil || l.readings == nil {
		return nil, errors.NewResourceError(resourceName, fmt.Errorf("lexicon not loaded"))
	}
	result := make([][]model.Reading, len(words))
	for i, word := range words {
		afterQuote := i > 0 && isOpeningQuote(words[i-1])
		result[i] = l.tagWord(word, i == 0 || afterQuote)
	}
	return result, nil
}

func (l *Lexicon) tagWord(word string, sentenceInitial bool) []model.Reading {
	if isPunctuation(word) {
		return []model.Reading{{Lemma: word, POSTag: "PKT"}}
	}
	if numberPattern.MatchString(word) {
		return []model.Reading{{Lemma: word, POSTag: "ZAL"}}
	}

	var readings []model.Reading
	readings = append(readings, l.readings[word]...)
	if sentenceInitial && typoutil.StartsWithUppercase(word) {
		if lower := typoutil.LowercaseFirst(word); lower != word {
			readings = append(readings, l.readings[lower]...)
		}
	}
	if len(readings) == 0 {
		readings = l.tagCompound(word)
	}
	if len(readings) == 0 {
		return []model.Reading{{}}
	}
	return readings
}

// tagCompound tags "Blumen-Hochzeit" like "Hochzeit" but keeps the full lemma.
func (l *Lexicon) tagCompound(word string) []model.Reading {
	idx := strings.LastIndex(word, "-")
	if idx <= 0 || idx == len(word)-1 {
		return nil
	}
	prefix, last := word[:idx+1], word[idx+1:]
	var readings []model.Reading
	for _, candidate := range []string{last, typoutil.UppercaseFirst(last)} {
		for _, r := range l.readings[candidate] {
			if !strings.HasPrefix(r.POSTag, "SUB") {
				continue
			}
			readings = append(readings, model.Reading{Lemma: prefix + r.Lemma, POSTag: r.POSTag})
		}
		if len(readings) > 0 {
			break
		}
	}
	return readings
}

// Synthesize returns the forms of the reading's lemma whose tag matches the template.
// A template field matches a tag field when it is equal to it or one of its
// "/"-separated alternatives is.
func (l *Lexicon) Synthesize(reading model.Reading, template string) ([]string, error) {
	forms, ok := l.lemmas[reading.Lemma]
	if !ok {
		return nil, errors.NewLookupError(reading.Lemma, template)
	}
	tmplParts := strings.Split(template, ":")
	result := []string{}
	seen := make(map[string]bool)
	for _, f := range forms {
		if seen[f.text] || !templateMatches(tmplParts, f.tag) {
			continue
		}
		seen[f.text] = true
		result = append(result, f.text)
	}
	return result, nil
}

// SynthesizeRegexp returns the forms of the reading's lemma whose full tag matches pattern.
func (l *Lexicon) SynthesizeRegexp(reading model.Reading, pattern string) ([]string, error) {
	forms, ok := l.lemmas[reading.Lemma]
	if !ok {
		return nil, errors.NewLookupError(reading.Lemma, pattern)
	}
	re, err := l.compile(pattern)
	if err != nil {
		return nil, err
	}
	result := []string{}
	seen := make(map[string]bool)
	for _, f := range forms {
		if seen[f.text] || !re.MatchString(f.tag) {
			continue
		}
		seen[f.text] = true
		result = append(result, f.text)
	}
	return result, nil
}

func (l *Lexicon) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := l.patterns.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, errors.NewValidationError("pattern", err.Error())
	}
	actual, _ := l.patterns.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// Size returns the number of distinct word forms
func (l *Lexicon) Size() int {
	return len(l.readings)
}

func templateMatches(tmplParts []string, tag string) bool {
	tagParts := strings.Split(tag, ":")
	if len(tagParts) != len(tmplParts) {
		return false
	}
	for i, want := range tmplParts {
		if want == tagParts[i] {
			continue
		}
		if !strings.Contains(want, "/") {
			return false
		}
		found := false
		for _, alt := range strings.Split(want, "/") {
			if alt == tagParts[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func isPunctuation(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

func isOpeningQuote(word string) bool {
	switch word {
	case "\"", "„", "»", "«", "“", "‚", "'":
		return true
	}
	return false
}
