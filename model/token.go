package model

import "strings"

// Reading is one morphological analysis of a token: a colon-delimited POS tag
// such as "ART:DEF:NOM:SIN:MAS" and the lemma it belongs to.
// A reading without POSTag marks a word the tagger does not know.
type Reading struct {
	Lemma  string `json:"lemma,omitempty"`
	POSTag string `json:"pos_tag,omitempty"`
}

// Token is a word, number or punctuation mark with its character offsets
// (runes, relative to the checked text) and all readings the tagger produced.
type Token struct {
	Text             string    `json:"text"`
	StartPos         int       `json:"start_pos"`
	EndPos           int       `json:"end_pos"`
	WhitespaceBefore bool      `json:"whitespace_before"`
	Readings         []Reading `json:"readings,omitempty"`
	ChunkTags        []string  `json:"chunk_tags,omitempty"`

	// SentenceStart is set on the virtual token at index 0 of every sentence.
	SentenceStart bool `json:"sentence_start,omitempty"`
	// SentenceEnd is set on the last token of a sentence.
	SentenceEnd bool `json:"sentence_end,omitempty"`
	// ParagraphEnd is set on the last token of a paragraph.
	ParagraphEnd bool `json:"paragraph_end,omitempty"`
}

// IsTagged reports whether at least one reading carries a POS tag.
func (t Token) IsTagged() bool {
	for _, r := range t.Readings {
		if r.POSTag != "" {
			return true
		}
	}
	return false
}

// HasPosTag reports whether any reading has exactly the given tag.
func (t Token) HasPosTag(tag string) bool {
	for _, r := range t.Readings {
		if r.POSTag == tag {
			return true
		}
	}
	return false
}

// HasPosTagStartingWith reports whether any reading's tag starts with prefix.
func (t Token) HasPosTagStartingWith(prefix string) bool {
	for _, r := range t.Readings {
		if r.POSTag != "" && strings.HasPrefix(r.POSTag, prefix) {
			return true
		}
	}
	return false
}

// HasPartialPosTag reports whether any reading's tag contains part.
func (t Token) HasPartialPosTag(part string) bool {
	for _, r := range t.Readings {
		if r.POSTag != "" && strings.Contains(r.POSTag, part) {
			return true
		}
	}
	return false
}

// HasPosTagAndLemma reports whether a single reading has both the tag prefix and the lemma.
func (t Token) HasPosTagAndLemma(prefix, lemma string) bool {
	for _, r := range t.Readings {
		if strings.HasPrefix(r.POSTag, prefix) && r.Lemma == lemma {
			return true
		}
	}
	return false
}

// HasLemma reports whether any reading has the given lemma.
func (t Token) HasLemma(lemma string) bool {
	for _, r := range t.Readings {
		if r.Lemma == lemma {
			return true
		}
	}
	return false
}

// HasAnyLemma reports whether any reading has one of the lemmas.
func (t Token) HasAnyLemma(lemmas ...string) bool {
	for _, l := range lemmas {
		if t.HasLemma(l) {
			return true
		}
	}
	return false
}

// HasChunkTag reports whether the chunker assigned the tag to this token.
func (t Token) HasChunkTag(tag string) bool {
	for _, c := range t.ChunkTags {
		if c == tag {
			return true
		}
	}
	return false
}

// WithReadings returns a copy of the token carrying different readings.
func (t Token) WithReadings(readings ...Reading) Token {
	t.Readings = append([]Reading(nil), readings...)
	t.ChunkTags = append([]string(nil), t.ChunkTags...)
	return t
}

// Sentence is an analyzed sentence. Tokens[0] is always the SentenceStart token.
type Sentence struct {
	Text   string  `json:"text"`
	Offset int     `json:"offset"`
	Tokens []Token `json:"tokens"`
}

// Len returns the number of real tokens (without the sentence start marker).
func (s Sentence) Len() int {
	if len(s.Tokens) == 0 {
		return 0
	}
	return len(s.Tokens) - 1
}

// Covered returns the text between the start of token from and the end of token to.
func (s Sentence) Covered(from, to int) string {
	runes := []rune(s.Text)
	start := s.Tokens[from].StartPos - s.Offset
	end := s.Tokens[to].EndPos - s.Offset
	if start < 0 || end > len(runes) || start > end {
		return ""
	}
	return string(runes[start:end])
}
