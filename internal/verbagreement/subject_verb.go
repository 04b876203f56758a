package verbagreement

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/gcbaptista/go-grammar-checker/internal/antipattern"
	"github.com/gcbaptista/go-grammar-checker/internal/chunking"
	internalErrors "github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/typoutil"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// SubjectVerbRuleID identifies the copula number agreement rule
const SubjectVerbRuleID = "DE_SUBJECT_VERB_AGREEMENT"

const categoryGrammar = "GRAMMAR"

// copula pairs singular forms with their plural
var copula = []struct{ singular, plural string }{
	{"ist", "sind"},
	{"war", "waren"},
}

var (
	questionPronouns = set("wie")
	currencies       = set("Dollar", "Euro", "Yen")

	quantifierPattern = regexp.MustCompile(`^(?:wer|(?i:alle[nr]?)|(?i:jede[rs]?)|(?i:manche[nrs]?))$`)
	finiteVerbPattern = regexp.MustCompile(`^VER:[1-3]:.+$`)
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// SubjectVerbRule checks the number of "ist/sind" and "war/waren" against the
// noun phrase before it, e.g. "Die Autos ist schnell".
type SubjectVerbRule struct {
	tagger       services.Tagger
	antiPatterns *antipattern.Table
}

// NewSubjectVerbRule creates the rule. The tagger recognizes nominalized infinitives.
func NewSubjectVerbRule(tagger services.Tagger) (*SubjectVerbRule, error) {
	table, err := antipattern.Builtin(antipattern.TableSubjectVerb)
	if err != nil {
		return nil, err
	}
	return &SubjectVerbRule{tagger: tagger, antiPatterns: table}, nil
}

// ID returns the rule identifier
func (r *SubjectVerbRule) ID() string { return SubjectVerbRuleID }

// Info describes the rule
func (r *SubjectVerbRule) Info() model.RuleInfo {
	return model.RuleInfo{
		ID:          SubjectVerbRuleID,
		Description: "Kongruenz von Subjekt und Prädikat (unvollständig)",
		Category:    categoryGrammar,
		Enabled:     true,
		Examples: []model.RuleExample{
			{Incorrect: "Die Autos ist schnell.", Correct: "Die Autos sind schnell."},
		},
	}
}

// Evaluate reports every copula whose number contradicts the preceding noun phrase.
func (r *SubjectVerbRule) Evaluate(ctx context.Context, sentence model.Sentence) ([]model.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := sentence.Tokens
	immune := antipattern.Immunize(tokens, r.antiPatterns)

	var matches []model.Match
	for i := 1; i < len(tokens); i++ {
		if immune[i] {
			continue
		}
		m, err := r.singularMatch(tokens, i)
		if err != nil {
			return nil, err
		}
		if m != nil {
			matches = append(matches, *m)
		}
		if m := r.pluralMatch(tokens, i); m != nil {
			matches = append(matches, *m)
		}
	}
	return matches, nil
}

// singularMatch detects "Der Hund und die Katze ist".
func (r *SubjectVerbRule) singularMatch(tokens []model.Token, i int) (*model.Match, error) {
	tok := tokens[i]
	plural, ok := pluralFor(tok.Text)
	if !ok {
		return nil, nil
	}
	prev := tokens[i-1]
	if !prev.HasChunkTag(chunking.PhrasePlural) || prev.HasChunkTag(chunking.PhrasePrepositional) {
		return nil, nil
	}
	// "um 18 Uhr ist Feierabend"
	if prev.Text == "Uhr" || currencies[prev.Text] {
		return nil, nil
	}
	// "zehn Jahre ist es her"
	if i+1 < len(tokens) && tokens[i+1].Text == "es" {
		return nil, nil
	}
	if !prevChunkIsNominative(tokens, i-1) ||
		hasUnknownToken(tokens, 0, i) ||
		hasQuestionPronounToTheLeft(tokens, i-1) ||
		hasVerbToTheLeft(tokens, i-1) ||
		hasQuantifierToTheLeft(tokens, i-1) {
		return nil, nil
	}
	onlyInfinitives, err := r.containsOnlyInfinitivesToTheLeft(tokens, i-1)
	if err != nil {
		return nil, err
	}
	if onlyInfinitives {
		return nil, nil
	}
	return newSubjectVerbMatch(tok, plural), nil
}

// pluralMatch detects "Der Hund sind".
func (r *SubjectVerbRule) pluralMatch(tokens []model.Token, i int) *model.Match {
	tok := tokens[i]
	singular, ok := singularFor(tok.Text)
	if !ok {
		return nil
	}
	prev := tokens[i-1]
	if !prev.HasChunkTag(chunking.PhraseSingular) ||
		prev.HasChunkTag(chunking.PhrasePlural) ||
		prev.HasChunkTag(chunking.PhrasePrepositional) ||
		currencies[prev.Text] {
		return nil
	}
	// "Eine Persönlichkeit sind Sie selbst."
	if i+1 < len(tokens) && tokens[i+1].Text == "Sie" {
		return nil
	}
	if !prevChunkIsNominative(tokens, i-1) ||
		hasUnknownToken(tokens, 0, i) ||
		hasUnknownToken(tokens, i+1, len(tokens)-1) {
		return nil
	}
	// "Viele Brunnen in Italiens Hauptstadt sind bereits abgeschaltet."
	if len(tokens) > 1 && (tokens[1].Text == "Alle" || tokens[1].Text == "Viele") {
		return nil
	}
	// "Die Zielgruppe sind Männer.": the predicate carries the plural
	if isFollowedByNominativePlural(tokens, i+1) {
		return nil
	}
	return newSubjectVerbMatch(tok, singular)
}

func newSubjectVerbMatch(tok model.Token, replacement string) *model.Match {
	return &model.Match{
		RuleID:       SubjectVerbRuleID,
		Offset:       tok.StartPos,
		Length:       tok.EndPos - tok.StartPos,
		Message:      fmt.Sprintf("Bitte prüfen, ob hier '%s' stehen sollte.", replacement),
		ShortMessage: "Möglicherweise fehlende Übereinstimmung von Subjekt und Prädikat",
		Replacements: []string{replacement},
	}
}

func pluralFor(word string) (string, bool) {
	for _, p := range copula {
		if p.singular == word {
			return p.plural, true
		}
	}
	return "", false
}

func singularFor(word string) (string, bool) {
	for _, p := range copula {
		if p.plural == word {
			return p.singular, true
		}
	}
	return "", false
}

// prevChunkIsNominative walks back over the noun phrase ending at start.
func prevChunkIsNominative(tokens []model.Token, start int) bool {
	for i := start; i > 0; i-- {
		tok := tokens[i]
		if !tok.HasChunkTag(chunking.PhraseSingular) && !tok.HasChunkTag(chunking.PhrasePlural) {
			return false
		}
		if tok.HasPartialPosTag("NOM") {
			return true
		}
	}
	return false
}

// hasUnknownToken reports an untagged token in tokens[from:to]. Noun phrases
// cannot be unified around words the tagger does not know.
func hasUnknownToken(tokens []model.Token, from, to int) bool {
	for i := from; i < to && i < len(tokens); i++ {
		for _, r := range tokens[i].Readings {
			if r.POSTag == "" {
				return true
			}
		}
	}
	return false
}

func hasQuestionPronounToTheLeft(tokens []model.Token, start int) bool {
	for i := start; i > 0; i-- {
		if questionPronouns[typoutil.Lower(tokens[i].Text)] {
			return true
		}
	}
	return false
}

func hasVerbToTheLeft(tokens []model.Token, start int) bool {
	for i := start; i > 0; i-- {
		for _, r := range tokens[i].Readings {
			if finiteVerbPattern.MatchString(r.POSTag) {
				return true
			}
		}
	}
	return false
}

func hasQuantifierToTheLeft(tokens []model.Token, start int) bool {
	for i := start; i > 0; i-- {
		if quantifierPattern.MatchString(tokens[i].Text) {
			return true
		}
	}
	return false
}

// containsOnlyInfinitivesToTheLeft detects "Das Kopieren und Einfügen ist".
// Every noun on the left must be a nominalized infinitive and there must be
// at least two of them.
func (r *SubjectVerbRule) containsOnlyInfinitivesToTheLeft(tokens []model.Token, start int) (bool, error) {
	infinitives := 0
	for i := start; i > 0; i-- {
		tok := tokens[i]
		if !tok.HasPartialPosTag("SUB:") {
			continue
		}
		readings, err := r.tagger.Lookup(typoutil.Lower(tok.Text))
		if errors.Is(err, internalErrors.ErrWordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if !(model.Token{Readings: readings}).HasPosTagStartingWith("VER:INF") {
			return false, nil
		}
		infinitives++
	}
	return infinitives >= 2, nil
}

func isFollowedByNominativePlural(tokens []model.Token, start int) bool {
	for i := start; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.HasPartialPosTag("SUB") && !tok.HasPartialPosTag("PRO") {
			continue
		}
		// NPP catches coordinations with "und"
		if tok.HasPartialPosTag("NOM:PLU") || tok.HasChunkTag(chunking.PhrasePlural) {
			return true
		}
	}
	return false
}
