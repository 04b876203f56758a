// Package agreement checks that determiners, adjectives and nouns of a noun
// phrase agree in case, number and gender, and synthesizes corrected phrases.
package agreement

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gcbaptista/go-grammar-checker/internal/antipattern"
	internalErrors "github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/morph"
	"github.com/gcbaptista/go-grammar-checker/internal/typoutil"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// RuleID identifies the noun phrase agreement rule
const RuleID = "DE_AGREEMENT"

const (
	categoryGrammar = "GRAMMAR"

	detNounMessagePrefix   = "Möglicherweise fehlende grammatische Übereinstimmung des "
	detNounShortMessage    = "Evtl. keine Übereinstimmung von Kasus, Genus oder Numerus"
	detAdjNounMessage      = "Möglicherweise fehlende grammatische Übereinstimmung von Kasus, Numerus oder Genus. Beispiel: 'mein kleiner Haus' statt 'mein kleines Haus'"
	detAdjNounShortMessage = "Evtl. keine Übereinstimmung von Kasus, Numerus oder Genus"
	compoundMessage        = "Wenn es sich um ein zusammengesetztes Nomen handelt, wird es zusammengeschrieben."
)

// Config tunes the suggestions of the agreement rules
type Config struct {
	// FilterSuggestions keeps only the suggestions that change the fewest words
	FilterSuggestions bool `yaml:"filter_suggestions" json:"filter_suggestions"`
	// SuggestAdjectivePhrases enables suggestions for determiner+adjective+noun phrases
	SuggestAdjectivePhrases bool `yaml:"suggest_adjective_phrases" json:"suggest_adjective_phrases"`
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() Config {
	return Config{FilterSuggestions: true}
}

var (
	insReading = model.Reading{Lemma: "der", POSTag: "ART:DEF:AKK:SIN:NEU"}
	zurReading = model.Reading{Lemma: "der", POSTag: "ART:DEF:DAT:SIN:FEM"}

	// Berliner, Hamburger, ... used attributively: "das Berliner Auto"
	cityAdjectiveTags = func() []string {
		var tags []string
		for _, c := range morph.Cases {
			for _, n := range morph.Numbers {
				for _, g := range morph.Genders {
					for _, d := range []string{"DEF", "IND", "SOL"} {
						tags = append(tags, "ADJ:"+string(c)+":"+string(n)+":"+string(g)+":GRU:"+d)
					}
				}
			}
		}
		return tags
	}()

	demonstrativesBeforeEine = set("der", "die", "das", "des", "dieses")

	// "nichts Gutes", "alles Gute"
	ignoredDeterminers   = set("nichts", "Nichts", "alles", "Alles", "dies", "Dies")
	followingParticiples = set("zugeschriebene", "zugeschriebenen", "genannte", "genannten")
)

// Rule reports determiner+noun and determiner+adjective+noun phrases whose
// words share no case, number and gender combination.
type Rule struct {
	tagger       services.Tagger
	synthesizer  services.Synthesizer
	antiPatterns *antipattern.Table
	config       Config
}

// NewRule creates the rule. The anti-pattern table is loaded here so that a
// broken table fails at startup.
func NewRule(tagger services.Tagger, synthesizer services.Synthesizer, cfg Config) (*Rule, error) {
	table, err := antipattern.Builtin(antipattern.TableAgreement)
	if err != nil {
		return nil, err
	}
	return &Rule{
		tagger:       tagger,
		synthesizer:  synthesizer,
		antiPatterns: table,
		config:       cfg,
	}, nil
}

// ID returns the rule identifier
func (r *Rule) ID() string { return RuleID }

// Info describes the rule
func (r *Rule) Info() model.RuleInfo {
	return model.RuleInfo{
		ID:          RuleID,
		Description: "Kongruenz von Nominalphrasen (unvollständig!), z.B. 'mein kleiner(kleines) Haus'",
		Category:    categoryGrammar,
		Enabled:     true,
		Examples: []model.RuleExample{
			{Incorrect: "Der Haus wurde letztes Jahr gebaut.", Correct: "Das Haus wurde letztes Jahr gebaut."},
		},
	}
}

// Evaluate checks one sentence
func (r *Rule) Evaluate(ctx context.Context, sentence model.Sentence) ([]model.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.check(sentence, true)
}

// scan holds the state of one evaluation
type scan struct {
	original     []model.Token
	tokens       []model.Token
	immune       []bool
	replacements map[int]replacementType
	// full is false when re-checking a candidate compound
	full bool
}

func (r *Rule) check(sentence model.Sentence, full bool) ([]model.Match, error) {
	s := &scan{
		original: sentence.Tokens,
		tokens:   append([]model.Token(nil), sentence.Tokens...),
		immune:   antipattern.Immunize(sentence.Tokens, r.antiPatterns),
		full:     full,
	}
	if err := r.reclassifyCityAdjectives(s.tokens); err != nil {
		return nil, err
	}
	s.replacements = replacePrepositions(s.tokens)

	var matches []model.Match
	n := len(s.tokens)
	for i := range s.tokens {
		tok := s.tokens[i]
		if tok.SentenceStart || s.immune[i] {
			continue
		}
		if ignoredAt(s.tokens, i) {
			continue
		}
		if !morph.HasReadingOfType(tok, morph.Determiner) && !isRelevantPronoun(s.tokens, i) {
			continue
		}

		afterModifier := posAfterModifier(i+1, s.tokens)
		if afterModifier >= n {
			break
		}
		next := s.tokens[afterModifier]

		var m *model.Match
		var err error
		switch {
		case isNonPredicativeAdjective(next) || isParticiple(next):
			nounIdx := afterModifier + 1
			if nounIdx >= n {
				return matches, nil
			}
			if !morph.HasReadingOfType(s.tokens[nounIdx], morph.Noun) {
				continue
			}
			// "weniger farbenprächtig als das anderer Papageien"
			if i >= 2 && morph.HasReadingOfType(s.tokens[i-2], morph.Adjective) &&
				s.tokens[i-1].Text == "als" && tok.Text == "das" {
				continue
			}
			m, err = r.checkDetAdjNoun(s, i, afterModifier, nounIdx)
		case morph.HasReadingOfType(next, morph.Noun) && next.Text != "Herr":
			m, err = r.checkDetNoun(s, i, afterModifier)
		}
		if err != nil {
			return nil, err
		}
		if m != nil {
			matches = append(matches, *m)
		}
	}
	return matches, nil
}

// ignoredAt applies the sentence-local exceptions for a potential determiner at i.
func ignoredAt(tokens []model.Token, i int) bool {
	n := len(tokens)
	tok := tokens[i]
	if couldBeRelativeOrDependentClause(tokens, i) {
		return true
	}
	// "der eine Polizist", "auf der einen Seite"
	if i > 0 && (tok.Text == "eine" || tok.Text == "einen") &&
		demonstrativesBeforeEine[typoutil.Lower(tokens[i-1].Text)] {
		return true
	}
	if ignoredDeterminers[tok.Text] {
		return true
	}
	// "Art. 1" and "bisherigen Art. 1"
	if i < n-2 && tokens[i+1].Text == "Art" && tokens[i+2].Text == "." {
		return true
	}
	if i < n-3 && tokens[i+2].Text == "Art" && tokens[i+3].Text == "." {
		return true
	}
	// "einen Hochwasser führenden Fluss", "die Gott zugeschriebenen Eigenschaften"
	if i < n-3 && (tokens[i+2].HasPartialPosTag("PA1") || followingParticiples[tokens[i+2].Text]) {
		return true
	}
	return false
}

func isRelevantPronoun(tokens []model.Token, i int) bool {
	tok := tokens[i]
	lower := typoutil.Lower(tok.Text)
	if pronounsToBeIgnored[lower] {
		return false
	}
	if i > 0 && typoutil.Lower(tokens[i-1].Text) == "vor" && lower == "allem" {
		return false
	}
	return morph.HasReadingOfType(tok, morph.Pronoun)
}

// couldBeRelativeOrDependentClause avoids "Das Wahlrecht, das Frauen zugesprochen
// bekamen." and "Der Mann, in dem quadratische Fische schwammen."
func couldBeRelativeOrDependentClause(tokens []model.Token, pos int) bool {
	if pos >= 1 {
		comma := tokens[pos-1].Text == ","
		if comma && tokens[pos].HasAnyLemma(relativePronounLemmas...) && pos+3 < len(tokens) {
			return true
		}
	}
	if pos >= 2 && tokens[pos-2].Text == "," {
		prep := tokens[pos-1].HasPosTagStartingWith("PRP:")
		relPronoun := tokens[pos].HasAnyLemma(relativePronounLemmas...)
		// "..., weil diese Ausweis und Visitenkarte hinterließ."
		demonstrative := tokens[pos-1].HasPosTag("KON:UNT") && tokens[pos].HasAnyLemma("jen", "dies")
		return prep && relPronoun || demonstrative
	}
	return false
}

// posAfterModifier skips modifiers that may expand a phrase, as in "ein sehr
// hohes Haus" or "ein 500 Meter hohes Haus", and returns the index of the
// first token after them.
func posAfterModifier(startAt int, tokens []model.Token) int {
	n := len(tokens)
	if startAt+1 < n && modifiers[tokens[startAt].Text] {
		startAt++
	}
	if startAt+1 < n && (isNumeric(tokens[startAt].Text) || tokens[startAt].HasPosTag("ZAL")) {
		after := startAt + 1
		if startAt+3 < n && tokens[startAt+1].Text == "," && isNumeric(tokens[startAt+2].Text) {
			after = startAt + 3
		}
		text := tokens[after].Text
		for _, unit := range []string{"gramm", "Gramm", "Meter", "meter"} {
			if strings.HasSuffix(text, unit) {
				return after + 1
			}
		}
	}
	return startAt
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isNonPredicativeAdjective(tok model.Token) bool {
	for _, r := range tok.Readings {
		if strings.HasPrefix(r.POSTag, "ADJ") && !strings.Contains(r.POSTag, "PRD") {
			return true
		}
	}
	return false
}

func isParticiple(tok model.Token) bool {
	return tok.HasPartialPosTag("PA1") || tok.HasPartialPosTag("PA2")
}

// replacePrepositions analyzes "ins", "ans", ... as "das" and "zur" as "der".
// The original words stay available in scan.original.
func replacePrepositions(tokens []model.Token) map[int]replacementType {
	replaced := make(map[int]replacementType)
	for i, tok := range tokens {
		switch {
		case insForms[tok.Text]:
			tok = tok.WithReadings(insReading)
			tok.Text = "das"
			tokens[i] = tok
			replaced[i] = replaceIns
		case tok.Text == "zur":
			tok = tok.WithReadings(zurReading)
			tok.Text = "der"
			tokens[i] = tok
			replaced[i] = replaceZur
		}
	}
	return replaced
}

// reclassifyCityAdjectives adds adjective readings to words like "Berliner"
// when "Berlin" is a proper noun and a noun follows.
func (r *Rule) reclassifyCityAdjectives(tokens []model.Token) error {
	for i := 1; i+1 < len(tokens); i++ {
		text := tokens[i].Text
		if !strings.HasSuffix(text, "er") || utf8.RuneCountInString(text) <= 3 || !typoutil.StartsWithUppercase(text) {
			continue
		}
		if !morph.HasReadingOfType(tokens[i+1], morph.Noun) {
			continue
		}
		readings, err := r.tagger.Lookup(strings.TrimSuffix(text, "er"))
		if errors.Is(err, internalErrors.ErrWordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if !hasProperNounReading(readings) {
			continue
		}
		extended := append([]model.Reading(nil), tokens[i].Readings...)
		for _, tag := range cityAdjectiveTags {
			extended = append(extended, model.Reading{Lemma: text, POSTag: tag})
		}
		tokens[i] = tokens[i].WithReadings(extended...)
	}
	return nil
}

func hasProperNounReading(readings []model.Reading) bool {
	for _, r := range readings {
		if strings.HasPrefix(r.POSTag, "EIG") {
			return true
		}
	}
	return false
}

func (r *Rule) checkDetNoun(s *scan, detIdx, nounIdx int) (*model.Match, error) {
	det, noun := s.tokens[detIdx], s.tokens[nounIdx]
	if s.immune[nounIdx] || nounsToBeIgnored[noun.Text] || noun.Text == "-" {
		return nil, nil
	}

	detCategories := morph.Categories(det, nil, false)
	nounCategories := morph.Categories(noun, nil, false)
	// unknown words are assumed to be correct
	if detCategories.IsEmpty() || nounCategories.IsEmpty() {
		return nil, nil
	}
	// "Meiner Chef raucht."
	if len(det.Readings) == 1 && morph.ParseTag(det.Readings[0].POSTag).IsSubstitutive() {
		detCategories = morph.CategorySet{}
	}
	if !detCategories.Intersect(nounCategories).IsEmpty() || isException(det, noun) {
		return nil, nil
	}

	if s.full {
		m, err := r.compoundError(s, detIdx, nounIdx)
		if err != nil || m != nil {
			return m, err
		}
	}

	details := "Kasus, Genus oder Numerus"
	if causes := categoriesCausingError(det, noun); len(causes) > 0 {
		details = strings.Join(causes, " und ")
	}
	m := newMatch(det, noun, detNounMessagePrefix+details+".", detNounShortMessage)
	if s.full {
		sg := &suggestor{
			synthesizer: r.synthesizer,
			determiner:  det,
			noun:        noun,
			replacement: s.replacements[detIdx],
			preposition: s.precedingWord(detIdx),
		}
		replacements, err := sg.suggestions(r.config.FilterSuggestions)
		if err != nil {
			return nil, err
		}
		m.Replacements = append(m.Replacements, replacements...)
	}
	return m, nil
}

func (r *Rule) checkDetAdjNoun(s *scan, detIdx, adjIdx, nounIdx int) (*model.Match, error) {
	det, adj, noun := s.tokens[detIdx], s.tokens[adjIdx], s.tokens[nounIdx]
	if utf8.RuneCountInString(noun.Text) < 2 {
		return nil, nil
	}
	for _, t := range []model.Token{det, adj, noun} {
		if morph.Categories(t, nil, false).IsEmpty() {
			return nil, nil
		}
	}

	skipSolitary := !vieleWenige[typoutil.Lower(det.Text)]
	common := morph.Categories(det, nil, true).
		Intersect(morph.Categories(adj, nil, skipSolitary)).
		Intersect(morph.Categories(noun, nil, true))
	if !common.IsEmpty() {
		return nil, nil
	}

	// "Aber das ignorierte Herr Grey bewusst."
	if (noun.Text == "Herr" || noun.Text == "Frau") && nounIdx+1 < len(s.tokens) {
		following := s.tokens[nounIdx+1]
		if !following.IsTagged() || following.HasPosTagStartingWith("EIG:") {
			return nil, nil
		}
	}
	if s.full {
		m, err := r.compoundError(s, detIdx, nounIdx)
		if err != nil || m != nil {
			return m, err
		}
	}
	if noun.HasPartialPosTag("ABK") {
		return nil, nil
	}

	m := newMatch(det, noun, detAdjNounMessage, detAdjNounShortMessage)
	// a number like "142 Meter" between determiner and adjective can't be synthesized
	skipped := ""
	allowSuggestion := adjIdx == detIdx+1
	if adjIdx == detIdx+2 && modifiers[s.tokens[detIdx+1].Text] {
		skipped = s.tokens[detIdx+1].Text
		allowSuggestion = true
	}
	if s.full && allowSuggestion && r.config.SuggestAdjectivePhrases {
		sg := &suggestor{
			synthesizer: r.synthesizer,
			determiner:  det,
			adjective1:  &adj,
			noun:        noun,
			skipped:     skipped,
			replacement: s.replacements[detIdx],
			preposition: s.precedingWord(detIdx),
		}
		replacements, err := sg.suggestions(r.config.FilterSuggestions)
		if err != nil {
			return nil, err
		}
		m.Replacements = append(m.Replacements, replacements...)
	}
	return m, nil
}

// compoundError suggests joining the noun at last with the capitalized word
// after it, e.g. "die Original Mail" -> "die Originalmail".
func (r *Rule) compoundError(s *scan, first, last int) (*model.Match, error) {
	nextIdx := last + 1
	if nextIdx >= len(s.tokens) {
		return nil, nil
	}
	next := s.tokens[nextIdx]
	if !typoutil.StartsWithUppercase(next.Text) || !next.IsTagged() {
		return nil, nil
	}
	if !next.HasPosTagStartingWith("SUB") {
		return nil, nil
	}

	// the phrase uses the words as written, before "ins" became "das"
	prefix := []string{s.original[first].Text}
	for i := first + 1; i < last; i++ {
		prefix = append(prefix, s.tokens[i].Text)
	}
	noun := s.tokens[last].Text
	candidates := []string{
		strings.Join(append(prefix, noun+typoutil.LowercaseFirst(next.Text)), " "),
		strings.Join(append(prefix, noun+"-"+next.Text), " "),
	}

	var replacements []string
	for _, phrase := range candidates {
		ok, err := r.phraseIsCorrect(phrase)
		if err != nil {
			return nil, err
		}
		if ok {
			replacements = append(replacements, phrase)
		}
	}
	if len(replacements) == 0 {
		return nil, nil
	}
	m := newMatch(s.tokens[first], next, compoundMessage, "")
	m.Replacements = replacements
	return m, nil
}

// phraseIsCorrect reports whether all words of the phrase are known and the
// phrase passes the agreement check.
func (r *Rule) phraseIsCorrect(phrase string) (bool, error) {
	words := strings.Fields(phrase)
	readings, err := r.tagger.Tag(words)
	if err != nil {
		return false, err
	}
	tokens := []model.Token{{SentenceStart: true}}
	pos := 0
	for i, w := range words {
		tok := model.Token{
			Text:             w,
			StartPos:         pos,
			EndPos:           pos + utf8.RuneCountInString(w),
			WhitespaceBefore: i > 0,
			Readings:         readings[i],
		}
		if !tok.IsTagged() {
			return false, nil
		}
		tokens = append(tokens, tok)
		pos = tok.EndPos + 1
	}
	tokens[len(tokens)-1].SentenceEnd = true

	matches, err := r.check(model.Sentence{Text: phrase, Tokens: tokens}, false)
	if err != nil {
		return false, err
	}
	return len(matches) == 0, nil
}

// precedingWord returns the word before the phrase when it can only be read
// as a preposition. Ambiguous words like "zu" do not restrict the cases.
func (s *scan) precedingWord(detIdx int) string {
	if detIdx < 1 || s.tokens[detIdx-1].SentenceStart {
		return ""
	}
	prev := s.tokens[detIdx-1]
	if !onlyPreposition(prev) {
		return ""
	}
	return prev.Text
}

func onlyPreposition(token model.Token) bool {
	if !token.IsTagged() {
		return false
	}
	for _, r := range token.Readings {
		if r.POSTag != "" && !strings.HasPrefix(r.POSTag, "PRP:") {
			return false
		}
	}
	return true
}

func isException(det, noun model.Token) bool {
	return det.Text == "allen" && noun.Text == "Grund"
}

// categoriesCausingError names the categories whose relaxation alone restores agreement.
func categoriesCausingError(det, noun model.Token) []string {
	var names []string
	for _, category := range morph.GrammarCategories {
		omit := morph.Omit{category: true}
		if morph.Agree(omit, true, det, noun) {
			names = append(names, category.DisplayName())
		}
	}
	return names
}

func newMatch(from, to model.Token, message, shortMessage string) *model.Match {
	return &model.Match{
		RuleID:       RuleID,
		Offset:       from.StartPos,
		Length:       to.EndPos - from.StartPos,
		Message:      message,
		ShortMessage: shortMessage,
		Replacements: []string{},
	}
}
