package morph

import (
	"sort"
	"strings"

	"github.com/gcbaptista/go-grammar-checker/model"
)

// CategorySet holds agreement keys of the form "case/number/gender/determination".
// Two tokens agree iff their sets intersect.
type CategorySet map[string]struct{}

// Add inserts a key.
func (s CategorySet) Add(key string) { s[key] = struct{}{} }

// Contains reports whether key is in the set.
func (s CategorySet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Intersect returns a new set with the keys present in both sets.
func (s CategorySet) Intersect(other CategorySet) CategorySet {
	out := CategorySet{}
	for k := range s {
		if other.Contains(k) {
			out.Add(k)
		}
	}
	return out
}

// IsEmpty reports whether the set has no keys.
func (s CategorySet) IsEmpty() bool { return len(s) == 0 }

// Keys returns the keys in sorted order.
func (s CategorySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Omit selects grammar categories left out of the agreement keys.
type Omit map[GrammarCategory]bool

// Categories computes the agreement keys for all readings of a token.
// Categories in omit are blanked in the keys. With skipSolitary, readings of the
// strong declension (":SOL") are ignored, which is what phrases with a determiner need.
func Categories(token model.Token, omit Omit, skipSolitary bool) CategorySet {
	set := CategorySet{}
	for _, reading := range token.Readings {
		if reading.POSTag == "" {
			continue
		}
		tag := ParseTag(reading.POSTag)
		if skipSolitary && tag.IsSolitary() {
			continue
		}
		if tag.Case() == "" && tag.Number() == "" && tag.Gender() == "" {
			continue
		}
		genders := []Gender{tag.Gender()}
		if expandsGender(token, reading, tag) {
			genders = Genders
		}
		dets := []Determination{tag.Determination()}
		// nouns lack determination and "jeder"/"mancher" are tagged inconsistently
		if tag.Determination() == "" || reading.Lemma == "jed" || reading.Lemma == "manch" {
			dets = []Determination{Definite, Indefinite}
		}
		for _, g := range genders {
			for _, d := range dets {
				set.Add(makeKey(tag.Case(), tag.Number(), g, d, omit))
			}
		}
	}
	return set
}

// expandsGender reports whether an underspecified gender stands for all three
// concrete genders. "NOG" (plural-only nouns) is treated like "ALG".
func expandsGender(token model.Token, reading model.Reading, tag *Tag) bool {
	if tag.Gender() != General && tag.Gender() != NoGender {
		return false
	}
	if tag.IsSubstitutive() {
		return false
	}
	return !possessiveSpecialCase(token)
}

// "meiner" is tagged ALG, expanding it would hide "Der Zustand meiner Gehirns."
func possessiveSpecialCase(token model.Token) bool {
	return token.HasPartialPosTag("PRO:POS") && (token.HasLemma("ich") || token.HasLemma("sich"))
}

func makeKey(c Case, n Number, g Gender, d Determination, omit Omit) string {
	if omit[CategoryCase] {
		c = ""
	}
	if omit[CategoryNumber] {
		n = ""
	}
	if omit[CategoryGender] {
		g = ""
	}
	return strings.Join([]string{string(c), string(n), string(g), string(d)}, "/")
}

// Agree reports whether the tokens share at least one agreement key.
func Agree(omit Omit, skipSolitary bool, tokens ...model.Token) bool {
	return !Common(omit, skipSolitary, tokens...).IsEmpty()
}

// Common intersects the categories of all tokens.
func Common(omit Omit, skipSolitary bool, tokens ...model.Token) CategorySet {
	if len(tokens) == 0 {
		return CategorySet{}
	}
	set := Categories(tokens[0], omit, skipSolitary)
	for _, t := range tokens[1:] {
		set = set.Intersect(Categories(t, omit, skipSolitary))
	}
	return set
}
