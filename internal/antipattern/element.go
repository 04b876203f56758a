package antipattern

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/gcbaptista/go-grammar-checker/model"
)

// Element is one position of an anti-pattern as written in the YAML tables.
// Text conditions (token, csToken, regex, csRegex) test the surface form, or the
// lemma when Inflected is set. POS conditions test the tags of the readings.
type Element struct {
	Token       string `yaml:"token,omitempty"`
	CSToken     string `yaml:"csToken,omitempty"`
	Regex       string `yaml:"regex,omitempty"`
	CSRegex     string `yaml:"csRegex,omitempty"`
	Inflected   bool   `yaml:"inflected,omitempty"`
	Negate      bool   `yaml:"negate,omitempty"`
	POS         string `yaml:"pos,omitempty"`
	POSRegex    string `yaml:"posRegex,omitempty"`
	Except      string `yaml:"except,omitempty"`
	Min         *int   `yaml:"min,omitempty"`
	Max         *int   `yaml:"max,omitempty"`
	Skip        int    `yaml:"skip,omitempty"`
	SpaceBefore *bool  `yaml:"spaceBefore,omitempty"`
}

// Tags the matcher assigns to tokens from their sentence flags.
const (
	SentenceStartTag = "SENT_START"
	SentenceEndTag   = "SENT_END"
	ParagraphEndTag  = "PARA_END"

	// UnknownTag is what POS conditions see on a word the tagger does not know
	UnknownTag = "UNKNOWN"
)

type stringMatcher interface {
	MatchString(s string) bool
}

type literal struct {
	value    string
	foldCase bool
}

func (l literal) MatchString(s string) bool {
	if l.foldCase {
		return strings.EqualFold(l.value, s)
	}
	return l.value == s
}

// backtrackingRegexp wraps patterns RE2 cannot compile, e.g. negative lookahead.
type backtrackingRegexp struct {
	re *regexp2.Regexp
}

func (b backtrackingRegexp) MatchString(s string) bool {
	ok, err := b.re.MatchString(s)
	return err == nil && ok
}

// compileRegexp compiles a whole-string pattern. Patterns from the tables use
// Java syntax; the few constructs RE2 lacks go through regexp2.
func compileRegexp(pattern string, foldCase bool) (stringMatcher, error) {
	anchored := "^(?:" + pattern + ")$"
	prefix := ""
	if foldCase {
		prefix = "(?i)"
	}
	if re, err := regexp.Compile(prefix + anchored); err == nil {
		return re, nil
	}
	opts := regexp2.RegexOptions(regexp2.None)
	if foldCase {
		opts = regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(anchored, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = 50 * time.Millisecond
	return backtrackingRegexp{re: re}, nil
}

// matcher is the compiled form of an Element
type matcher struct {
	text        stringMatcher
	inflected   bool
	pos         stringMatcher
	except      stringMatcher
	negate      bool
	min, max    int
	skip        int
	spaceBefore *bool
}

func compileElement(el Element) (*matcher, error) {
	m := &matcher{
		inflected:   el.Inflected,
		negate:      el.Negate,
		min:         1,
		max:         1,
		skip:        el.Skip,
		spaceBefore: el.SpaceBefore,
	}
	if el.Min != nil {
		m.min = *el.Min
	}
	if el.Max != nil {
		m.max = *el.Max
	}
	if m.max < m.min || m.max < 1 {
		return nil, fmt.Errorf("invalid repetition min=%d max=%d", m.min, m.max)
	}

	var err error
	switch {
	case el.Token != "":
		m.text = literal{value: el.Token, foldCase: true}
	case el.CSToken != "":
		m.text = literal{value: el.CSToken}
	case el.Regex != "":
		m.text, err = compileRegexp(el.Regex, true)
	case el.CSRegex != "":
		m.text, err = compileRegexp(el.CSRegex, false)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case el.POS != "":
		m.pos = literal{value: el.POS}
	case el.POSRegex != "":
		if m.pos, err = compileRegexp(el.POSRegex, false); err != nil {
			return nil, err
		}
	}

	if el.Except != "" {
		if m.except, err = compileRegexp(el.Except, true); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *matcher) matches(token model.Token) bool {
	ok := m.matchesPositive(token)
	if m.negate {
		ok = !ok
	}
	if ok && m.spaceBefore != nil && token.WhitespaceBefore != *m.spaceBefore {
		return false
	}
	return ok
}

func (m *matcher) matchesPositive(token model.Token) bool {
	if !m.inflected && m.text != nil && !m.text.MatchString(token.Text) {
		return false
	}
	if m.except != nil && m.except.MatchString(token.Text) {
		return false
	}
	if !m.inflected && m.pos == nil {
		return true
	}
	unknown := !token.SentenceStart && !token.IsTagged()
	for _, r := range readingsWithFlags(token) {
		if m.inflected && (m.text == nil || !m.text.MatchString(r.Lemma)) {
			continue
		}
		if m.pos != nil {
			tag, ok := posTagOf(r, unknown)
			if !ok || !m.pos.MatchString(tag) {
				continue
			}
		}
		return true
	}
	return false
}

// posTagOf returns the tag POS conditions test. Empty tags of an untagged
// word read as UnknownTag; on a tagged word they take no part.
func posTagOf(r model.Reading, unknown bool) (string, bool) {
	if r.POSTag != "" {
		return r.POSTag, true
	}
	return UnknownTag, unknown
}

// readingsWithFlags adds virtual readings for the sentence and paragraph markers.
func readingsWithFlags(token model.Token) []model.Reading {
	readings := token.Readings
	if len(readings) == 0 && !token.SentenceStart {
		readings = []model.Reading{{}}
	}
	if !token.SentenceStart && !token.SentenceEnd && !token.ParagraphEnd {
		return readings
	}
	readings = append([]model.Reading(nil), readings...)
	if token.SentenceStart {
		readings = append(readings, model.Reading{POSTag: SentenceStartTag})
	}
	if token.SentenceEnd {
		readings = append(readings, model.Reading{Lemma: token.Text, POSTag: SentenceEndTag})
	}
	if token.ParagraphEnd {
		readings = append(readings, model.Reading{Lemma: token.Text, POSTag: ParagraphEndTag})
	}
	return readings
}
