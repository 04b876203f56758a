package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordRegex matches words (including hyphenated compounds and truncations like
// "Ein-"), digit runs and single punctuation characters.
var wordRegex = regexp.MustCompile(`[\p{L}\p{M}\p{N}]+(?:[-'’][\p{L}\p{M}\p{N}]+)*-?|\S`)

// paragraphBreakRegex matches an empty line between two tokens.
var paragraphBreakRegex = regexp.MustCompile(`\n[ \t\r]*\n`)

// abbreviations never end a sentence, e.g. "Art." in "Art. 5" or "z. B."
var abbreviations = map[string]bool{
	"Art": true, "Abs": true, "bzw": true, "ca": true, "Dr": true, "etc": true,
	"evtl": true, "Fr": true, "ggf": true, "Hr": true, "Nr": true, "Prof": true,
	"S": true, "usw": true, "vgl": true, "z": true, "B": true, "d": true, "h": true,
	"St": true, "Str": true, "inkl": true, "max": true, "min": true,
}

// Word is a token with rune offsets into the tokenized text
type Word struct {
	Text             string
	Start            int
	End              int
	WhitespaceBefore bool

	byteStart int
	byteEnd   int
}

// Segment is one sentence of a text
type Segment struct {
	Text         string
	Offset       int
	Words        []Word
	ParagraphEnd bool
}

// Tokenize splits text into words, numbers and punctuation marks.
func Tokenize(text string) []Word {
	matches := wordRegex.FindAllStringIndex(text, -1)
	words := make([]Word, 0, len(matches)) // Initialize as empty slice, not nil

	runePos, bytePos := 0, 0
	for _, m := range matches {
		runePos += utf8.RuneCountInString(text[bytePos:m[0]])
		start := runePos
		runePos += utf8.RuneCountInString(text[m[0]:m[1]])
		words = append(words, Word{
			Text:             text[m[0]:m[1]],
			Start:            start,
			End:              runePos,
			WhitespaceBefore: m[0] > 0 && startsWithSpace(text[:m[0]]),
			byteStart:        m[0],
			byteEnd:          m[1],
		})
		bytePos = m[1]
	}
	return words
}

func startsWithSpace(prefix string) bool {
	r, _ := utf8.DecodeLastRuneInString(prefix)
	return unicode.IsSpace(r)
}

// SplitSentences tokenizes text and groups the words into sentences.
// A sentence ends at ".", "!" or "?" followed by whitespace, unless the
// preceding word is a known abbreviation or an ordinal number, and always
// at an empty line.
func SplitSentences(text string) []Segment {
	words := Tokenize(text)
	segments := make([]Segment, 0)
	if len(words) == 0 {
		return segments
	}

	begin := 0
	for i := range words {
		last := i == len(words)-1
		paragraphEnd := !last && paragraphBreakRegex.MatchString(text[words[i].byteEnd:words[i+1].byteStart])
		if !last && !paragraphEnd && !endsSentence(words, i) {
			continue
		}
		segments = append(segments, newSegment(text, words[begin:i+1], paragraphEnd || last))
		begin = i + 1
	}
	return segments
}

func endsSentence(words []Word, i int) bool {
	w := words[i]
	next := words[i+1]
	if isClosingQuote(next.Text) && !next.WhitespaceBefore {
		// the quote belongs to this sentence
		return false
	}
	if isClosingQuote(w.Text) && i > 0 && isTerminal(words[i-1].Text) {
		return next.WhitespaceBefore
	}
	if !isTerminal(w.Text) || !next.WhitespaceBefore {
		return false
	}
	if w.Text == "." && i > 0 {
		prev := words[i-1].Text
		if abbreviations[prev] {
			return false
		}
		// "am 3. Mai" is an ordinal, "am 3. mai" never starts a sentence either
		if isDigits(prev) && !startsNewSentence(next.Text) {
			return false
		}
	}
	return true
}

func newSegment(text string, words []Word, paragraphEnd bool) Segment {
	first, last := words[0], words[len(words)-1]
	return Segment{
		Text:         text[first.byteStart:last.byteEnd],
		Offset:       first.Start,
		Words:        append([]Word(nil), words...),
		ParagraphEnd: paragraphEnd,
	}
}

func isTerminal(s string) bool {
	return s == "." || s == "!" || s == "?"
}

func isClosingQuote(s string) bool {
	switch s {
	case "\"", "“", "«", "»", "'", "‘":
		return true
	}
	return false
}

func isDigits(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}

func startsNewSentence(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r) && !isMonthName(s)
}

func isMonthName(s string) bool {
	switch s {
	case "Januar", "Februar", "März", "April", "Mai", "Juni", "Juli",
		"August", "September", "Oktober", "November", "Dezember":
		return true
	}
	return false
}
