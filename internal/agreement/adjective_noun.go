package agreement

import (
	"context"
	"errors"
	"strings"

	"github.com/gcbaptista/go-grammar-checker/internal/antipattern"
	internalErrors "github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/morph"
	"github.com/gcbaptista/go-grammar-checker/internal/typoutil"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// AdjectiveNounRuleID identifies the sentence-initial adjective+noun rule
const AdjectiveNounRuleID = "DE_AGREEMENT2"

const (
	adjNounMessage      = "Möglicherweise fehlende grammatikalische Übereinstimmung zwischen Adjektiv und Nomen bezüglich Kasus, Numerus oder Genus. Beispiel: 'kleiner Haus' statt 'kleines Haus'"
	adjNounShortMessage = "Möglicherweise keine Übereinstimmung bezüglich Kasus, Numerus oder Genus"
)

var quotes = set("\"", "„", "»", "«")

// AdjectiveNounRule checks phrases without determiner that open a sentence,
// like "Kleiner Haus am Waldrand".
type AdjectiveNounRule struct {
	synthesizer  services.Synthesizer
	antiPatterns *antipattern.Table
}

// NewAdjectiveNounRule creates the rule
func NewAdjectiveNounRule(synthesizer services.Synthesizer) (*AdjectiveNounRule, error) {
	table, err := antipattern.Builtin(antipattern.TableAdjectiveNoun)
	if err != nil {
		return nil, err
	}
	return &AdjectiveNounRule{synthesizer: synthesizer, antiPatterns: table}, nil
}

// ID returns the rule identifier
func (r *AdjectiveNounRule) ID() string { return AdjectiveNounRuleID }

// Info describes the rule
func (r *AdjectiveNounRule) Info() model.RuleInfo {
	return model.RuleInfo{
		ID:          AdjectiveNounRuleID,
		Description: "Kongruenz von Adjektiv und Nomen (unvollständig!), z.B. 'kleiner (kleines) Haus'",
		Category:    categoryGrammar,
		Enabled:     true,
		Examples: []model.RuleExample{
			{Incorrect: "Kleiner Haus am Waldrand", Correct: "Kleines Haus am Waldrand"},
		},
	}
}

// Evaluate checks the first two words of the sentence, not counting quotes.
func (r *AdjectiveNounRule) Evaluate(ctx context.Context, sentence model.Sentence) ([]model.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := sentence.Tokens
	immune := antipattern.Immunize(tokens, r.antiPatterns)

	for i := 0; i+1 < len(tokens); i++ {
		tok := tokens[i]
		if tok.SentenceStart || quotes[tok.Text] {
			continue
		}
		next := tokens[i+1]
		if !tok.HasPosTagStartingWith("ADJ") || !next.HasPosTagStartingWith("SUB") || next.HasPosTagStartingWith("EIG") {
			break
		}
		if immune[i] || immune[i+1] || typoutil.Lower(tok.Text) == "unter" {
			continue
		}
		// "Deutscher Taschenbuch Verlag"
		if i+2 < len(tokens) && tokens[i+2].HasPosTagStartingWith("SUB") {
			break
		}
		if morph.Agree(nil, false, tok, next) {
			break
		}

		replacements, err := r.suggestions(tok, next)
		if err != nil {
			return nil, err
		}
		return []model.Match{{
			RuleID:       AdjectiveNounRuleID,
			Offset:       tok.StartPos,
			Length:       next.EndPos - tok.StartPos,
			Message:      adjNounMessage,
			ShortMessage: adjNounShortMessage,
			Replacements: replacements,
		}}, nil
	}
	return nil, nil
}

// suggestions inflects the adjective in the strong nominative for every
// number and gender the noun can have.
func (r *AdjectiveNounRule) suggestions(adj, noun model.Token) ([]string, error) {
	result := []string{}
	for _, nounReading := range noun.Readings {
		if nounReading.POSTag == "" {
			continue
		}
		gender, number := nounGender(nounReading.POSTag), nounNumber(nounReading.POSTag)
		if gender == "" || number == "" {
			continue
		}
		template := "ADJ:NOM:" + number + ":" + gender + ":GRU:SOL"
		for _, adjReading := range adj.Readings {
			if !strings.HasPrefix(adjReading.POSTag, "ADJ") {
				continue
			}
			forms, err := r.synthesizer.Synthesize(adjReading, template)
			if errors.Is(err, internalErrors.ErrWordNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			for _, f := range forms {
				result = appendUnique(result, typoutil.UppercaseFirst(f)+" "+noun.Text)
			}
		}
	}
	return result, nil
}

func nounGender(tag string) string {
	for _, g := range []string{"MAS", "FEM", "NEU"} {
		if strings.Contains(tag, ":"+g) {
			return g
		}
	}
	return ""
}

func nounNumber(tag string) string {
	switch {
	case strings.Contains(tag, ":SIN:"):
		return "SIN"
	case strings.Contains(tag, ":PLU:"):
		return "PLU"
	}
	return ""
}
