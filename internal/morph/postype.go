package morph

import (
	"github.com/gcbaptista/go-grammar-checker/model"
)

// POSType is a coarse word class derived from the tag prefix.
type POSType int

const (
	Other POSType = iota
	Determiner
	Noun
	ProperNoun
	Verb
	Adjective
	Participle
	Pronoun
)

func (p POSType) String() string {
	switch p {
	case Determiner:
		return "DETERMINER"
	case Noun:
		return "NOMEN"
	case ProperNoun:
		return "PROPER_NOUN"
	case Verb:
		return "VERB"
	case Adjective:
		return "ADJEKTIV"
	case Participle:
		return "PARTIZIP"
	case Pronoun:
		return "PRONOMEN"
	}
	return "OTHER"
}

func typeOfCategory(category string) POSType {
	switch category {
	case "ART":
		return Determiner
	case "SUB":
		return Noun
	case "EIG":
		return ProperNoun
	case "VER":
		return Verb
	case "ADJ":
		return Adjective
	case "PA1", "PA2":
		return Participle
	case "PRO":
		return Pronoun
	}
	return Other
}

// HasReadingOfType reports whether any reading of the token belongs to the word class.
func HasReadingOfType(token model.Token, posType POSType) bool {
	for _, r := range token.Readings {
		if r.POSTag == "" {
			continue
		}
		if ParseTag(r.POSTag).Type() == posType {
			return true
		}
	}
	return false
}
