package morph

import (
	"strings"
	"sync"
)

// Tag is a parsed POS tag such as "ADJ:NOM:SIN:MAS:GRU:DEF". The raw string
// stays available through String so callers can still match on it.
type Tag struct {
	raw           string
	parts         []string
	kase          Case
	number        Number
	gender        Gender
	determination Determination
	degree        Degree
	person        string
}

var tagCache sync.Map // string -> *Tag

// ParseTag parses a colon-delimited tag. Parsed tags are cached and shared,
// so the result must be treated as read-only.
func ParseTag(raw string) *Tag {
	if cached, ok := tagCache.Load(raw); ok {
		return cached.(*Tag)
	}
	t := &Tag{raw: raw, parts: strings.Split(raw, ":")}
	for i, p := range t.parts {
		// short tags like "ART:DEF" or "ADV:TMP" carry no inflection
		if i == 0 || len(t.parts) < 3 {
			continue
		}
		switch p {
		case "NOM", "AKK", "DAT", "GEN":
			if t.kase == "" {
				t.kase = Case(p)
			}
		case "SIN", "PLU":
			if t.number == "" {
				t.number = Number(p)
			}
		case "MAS", "FEM", "NEU", "ALG", "NOG":
			if t.gender == "" {
				t.gender = Gender(p)
			}
		case "DEF", "IND":
			// "ART:DEF" and "ADJ:...:DEF" both carry determination
			if t.determination == "" {
				t.determination = Determination(p)
			}
		case "GRU", "KOM", "SUP":
			if t.degree == "" {
				t.degree = Degree(p)
			}
		case "1", "2", "3":
			if t.person == "" {
				t.person = p
			}
		}
	}
	actual, _ := tagCache.LoadOrStore(raw, t)
	return actual.(*Tag)
}

func (t *Tag) String() string { return t.raw }

// Category returns the word class prefix, e.g. "ART" or "SUB".
func (t *Tag) Category() string {
	if len(t.parts) == 0 {
		return ""
	}
	return t.parts[0]
}

// Subcategory returns the second field for word classes that carry one
// ("DEF" for articles, "POS" for possessive pronouns).
func (t *Tag) Subcategory() string {
	if len(t.parts) < 2 {
		return ""
	}
	return t.parts[1]
}

// Case returns the case, or "" when the tag has none.
func (t *Tag) Case() Case { return t.kase }

// Number returns the number, or "" when the tag has none.
func (t *Tag) Number() Number { return t.number }

// Gender returns the gender, or "" when the tag has none.
func (t *Tag) Gender() Gender { return t.gender }

// Determination returns DEF or IND, or "" when the reading is undetermined.
func (t *Tag) Determination() Determination { return t.determination }

// Degree returns the comparison degree of adjectives and participles.
func (t *Tag) Degree() Degree { return t.degree }

// Person returns "1", "2" or "3" for finite verb and personal pronoun tags.
func (t *Tag) Person() string { return t.person }

// Has reports whether one of the colon-separated fields equals part.
func (t *Tag) Has(part string) bool {
	for _, p := range t.parts {
		if p == part {
			return true
		}
	}
	return false
}

// IsSolitary reports whether the tag marks the strong (alleinstehend) declension.
func (t *Tag) IsSolitary() bool { return strings.HasSuffix(t.raw, ":SOL") }

// IsSubstitutive reports whether the tag marks a pronoun standing in for a noun.
func (t *Tag) IsSubstitutive() bool { return strings.HasSuffix(t.raw, ":STV") }

// Type returns the coarse word class of the tag.
func (t *Tag) Type() POSType {
	return typeOfCategory(t.Category())
}
