// Package morph models German inflection features and computes the agreement
// categories of tagged tokens.
package morph

// Case is the grammatical case (Kasus)
type Case string

const (
	Nominative Case = "NOM"
	Accusative Case = "AKK"
	Dative     Case = "DAT"
	Genitive   Case = "GEN"
)

// Cases lists all cases in the order suggestions are generated.
var Cases = []Case{Nominative, Accusative, Dative, Genitive}

// Number is the grammatical number (Numerus)
type Number string

const (
	Singular Number = "SIN"
	Plural   Number = "PLU"
)

// Numbers lists all numbers in generation order.
var Numbers = []Number{Singular, Plural}

// Gender is the grammatical gender (Genus). General marks an underspecified
// gender that agrees with every concrete gender.
type Gender string

const (
	Masculine Gender = "MAS"
	Feminine  Gender = "FEM"
	Neuter    Gender = "NEU"
	General   Gender = "ALG"
	NoGender  Gender = "NOG"
)

// Genders lists the concrete genders in generation order.
var Genders = []Gender{Masculine, Feminine, Neuter}

// Determination is the declension class of determiners and adjectives.
type Determination string

const (
	Definite   Determination = "DEF"
	Indefinite Determination = "IND"
)

// Degree is the comparison degree of adjectives.
type Degree string

const (
	Positive    Degree = "GRU"
	Comparative Degree = "KOM"
	Superlative Degree = "SUP"
)

// GrammarCategory is one of the dimensions agreement is checked on.
type GrammarCategory int

const (
	CategoryCase GrammarCategory = iota
	CategoryGender
	CategoryNumber
)

// GrammarCategories is the order in which categories are relaxed for diagnostics.
var GrammarCategories = []GrammarCategory{CategoryCase, CategoryGender, CategoryNumber}

// DisplayName returns the German explanation used in match messages.
func (c GrammarCategory) DisplayName() string {
	switch c {
	case CategoryCase:
		return "Kasus (Fall: Wer/Was, Wessen, Wem, Wen/Was - Beispiel: 'das Fahrrads' statt 'des Fahrrads')"
	case CategoryGender:
		return "Genus (männlich, weiblich, sächlich - Beispiel: 'der Fahrrad' statt 'das Fahrrad')"
	case CategoryNumber:
		return "Numerus (Einzahl, Mehrzahl - Beispiel: 'das Fahrräder' statt 'die Fahrräder')"
	}
	return ""
}

func (c GrammarCategory) String() string {
	switch c {
	case CategoryCase:
		return "KASUS"
	case CategoryGender:
		return "GENUS"
	case CategoryNumber:
		return "NUMERUS"
	}
	return "UNKNOWN"
}
