package verbagreement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gcbaptista/go-grammar-checker/internal/antipattern"
	internalErrors "github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/typoutil"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// VerbRuleID identifies the pronoun/verb person agreement rule
const VerbRuleID = "DE_VERBAGREEMENT"

const (
	// proximity is the largest token distance between a pronoun and its verb
	proximity = 5
	// minSegmentTokens skips one-word clauses
	minSegmentTokens = 4

	verbShortMessage = "Möglicherweise fehlende Übereinstimmung von Subjekt und Prädikat"
)

// Names that may precede "bin" without being its subject: "Suleiman bin Abdul".
var binIgnore = set(
	"Suleiman", "Mohamed", "Muhammad", "Muhammed", "Mohammed", "Mohammad",
	"Mansour", "Qaboos", "Qabus", "Tamim", "Majid", "Salman", "Ghazi",
	"Mahathir", "Madschid", "Maktum", "al-Aziz", "Asis", "Numan", "Hussein",
	"Abdul", "Abdulla", "Abdullah", "Isa", "Osama", "Said", "Zayid", "Zayed",
	"Hamad", "Chalifa", "Raschid", "Turki", "/",
)

// Subordinate clauses introduced by these words are checked on their own.
var clauseConjunctions = set("weil", "obwohl", "dass", "indem", "sodass")

var quotationMarks = set("\"", "„")

// pronounsByVerbForm lists the subject pronouns for a verb person and number.
var pronounsByVerbForm = []struct {
	form     string
	pronouns []string
}{
	{":1:SIN", []string{"ich"}},
	{":2:SIN", []string{"du"}},
	{":3:SIN", []string{"er", "sie", "es"}},
	{":1:PLU", []string{"wir"}},
	{":2:PLU", []string{"ihr"}},
	{":3:PLU", []string{"sie"}},
}

// VerbRule checks that "ich", "du", "er" and "wir" come with a finite verb of
// the same person and number, and that unambiguous first and second person
// verbs have their pronoun, e.g. "Ich bist müde".
type VerbRule struct {
	synthesizer  services.Synthesizer
	antiPatterns *antipattern.Table
}

// NewVerbRule creates the rule. The synthesizer generates the verb suggestions.
func NewVerbRule(synthesizer services.Synthesizer) (*VerbRule, error) {
	table, err := antipattern.Builtin(antipattern.TableVerbAgreement)
	if err != nil {
		return nil, err
	}
	return &VerbRule{synthesizer: synthesizer, antiPatterns: table}, nil
}

// ID returns the rule identifier
func (r *VerbRule) ID() string { return VerbRuleID }

// Info describes the rule
func (r *VerbRule) Info() model.RuleInfo {
	return model.RuleInfo{
		ID:          VerbRuleID,
		Description: "Kongruenz von Subjekt und Prädikat (nur 1. u. 2. Person oder m. Personalpronomen), z.B. 'Er bist (ist)'",
		Category:    categoryGrammar,
		Enabled:     true,
		Examples: []model.RuleExample{
			{Incorrect: "Ich bist über die Entwicklung sehr froh.", Correct: "Ich bin über die Entwicklung sehr froh."},
		},
	}
}

// Evaluate splits the sentence before subordinate clauses and checks each part.
func (r *VerbRule) Evaluate(ctx context.Context, sentence model.Sentence) ([]model.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var matches []model.Match
	for _, segment := range splitClauses(sentence.Tokens) {
		found, err := r.checkSegment(segment, sentence.Offset)
		if err != nil {
			return nil, err
		}
		matches = append(matches, found...)
	}
	return matches, nil
}

// splitClauses cuts before a conjunction that follows a comma: "…, dass du kommst".
// Only the first segment keeps the sentence start token.
func splitClauses(tokens []model.Token) [][]model.Token {
	var segments [][]model.Token
	start := 0
	for i := 2; i < len(tokens); i++ {
		if tokens[i-1].Text == "," && clauseConjunctions[tokens[i].Text] {
			segments = append(segments, tokens[start:i])
			start = i
		}
	}
	return append(segments, tokens[start:])
}

// segment is one clause under inspection
type segment struct {
	tokens []model.Token
	// offset is where the sentence starts in the text
	offset int
}

// initial reports whether the token opens the sentence.
func (s segment) initial(tok model.Token) bool { return tok.StartPos-s.offset == 0 }

// positions of pronouns and verbs in a segment, -1 when absent
type positions struct {
	ich, du, er, wir int

	// verbs that match exactly one person and number
	ver1Sin, ver2Sin, ver1Plu int
	// verbs that can match the person and number
	possible1Sin, possible2Sin, possible3Sin, possible1Plu int
}

func (s segment) locate(immune []bool) positions {
	p := positions{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	tokens := s.tokens
	for i := 1; i < len(tokens); i++ {
		if immune[i] {
			continue
		}
		tok := tokens[i]
		word := strings.ReplaceAll(typoutil.Lower(tok.Text), "‚", "")
		switch word {
		case "ich":
			p.ich = i
		case "du":
			p.du = i
		case "er":
			p.er = i
		case "wir":
			p.wir = i
		}

		if !tok.HasPartialPosTag("VER") {
			continue
		}
		if !typoutil.StartsWithLowercase(tok.Text) && i != 1 && !quotationMarks[tokens[i-1].Text] {
			continue
		}
		switch {
		case s.unambiguously(tok, "1", "SIN") && !(word == "bin" && s.binIsNoVerb(i)):
			p.ver1Sin = i
		case s.unambiguously(tok, "2", "SIN") && tok.Text != "Probst":
			p.ver2Sin = i
		case s.unambiguously(tok, "1", "PLU"):
			p.ver1Plu = i
		}
		if tok.HasPartialPosTag(":1:SIN") {
			p.possible1Sin = i
		}
		if tok.HasPartialPosTag(":2:SIN") {
			p.possible2Sin = i
		}
		if tok.HasPartialPosTag(":3:SIN") {
			p.possible3Sin = i
		}
		if tok.HasPartialPosTag(":1:PLU") {
			p.possible1Plu = i
		}
	}
	return p
}

// binIsNoVerb detects "bin" in Arabic names and "Bin Laden".
func (s segment) binIsNoVerb(i int) bool {
	tokens := s.tokens
	if binIgnore[tokens[i-1].Text] {
		return true
	}
	return i+1 < len(tokens) && strings.HasPrefix(tokens[i+1].Text, "Laden")
}

func (r *VerbRule) checkSegment(tokens []model.Token, offset int) ([]model.Match, error) {
	if len(tokens) < minSegmentTokens {
		return nil, nil
	}
	s := segment{tokens: tokens, offset: offset}
	p := s.locate(antipattern.Immunize(tokens, r.antiPatterns))

	var matches []model.Match
	add := func(m *model.Match, err error) error {
		if err != nil {
			return err
		}
		if m != nil {
			matches = append(matches, *m)
		}
		return nil
	}

	// "ich", "du" and "wir" can only be subjects and need a matching verb
	switch {
	case p.ver1Sin != -1 && p.ich == -1 && !s.isQuote(p.ver1Sin-1):
		matches = append(matches, wrongVerbMatch(tokens[p.ver1Sin]))
	case p.ich > 0 && !isNear(p.possible1Sin, p.ich) &&
		(tokens[p.ich].Text == "ich" || tokens[p.ich].StartPos-offset <= 1) && // not "das lyrische Ich"
		s.pronounNotQuoted(p.ich):
		ok, verb := s.verbMatches(p.ich, "1", "SIN")
		if !ok && !s.nextButOneIsModal(p.ich) && verb.Text != "äußerst" {
			if err := add(r.wrongVerbSubjectMatch(tokens[p.ich], verb, "1:SIN")); err != nil {
				return nil, err
			}
		}
	}

	switch {
	case p.ver2Sin != -1 && p.du == -1 && !s.isQuote(p.ver2Sin-1):
		matches = append(matches, wrongVerbMatch(tokens[p.ver2Sin]))
	case p.du > 0 && !isNear(p.possible2Sin, p.du) && s.pronounNotQuoted(p.du):
		ok, verb := s.verbMatches(p.du, "2", "SIN")
		next := tokens[s.after(p.du)]
		if !ok &&
			!next.HasPosTagStartingWith("VER:1:SIN:KJ2") && // "Wenn ich du wäre"
			!(next.HasPosTagStartingWith("ADJ:") && !next.HasPosTag("ADJ:PRD:GRU")) && // "dass du billige Klamotten"
			!tokens[p.du-1].HasPosTagStartingWith("VER:1:SIN:KJ2") &&
			!s.nextButOneIsModal(p.du) {
			if err := add(r.wrongVerbSubjectMatch(tokens[p.du], verb, "2:SIN")); err != nil {
				return nil, err
			}
		}
	}

	if p.er > 0 && !isNear(p.possible3Sin, p.er) && s.pronounNotQuoted(p.er) {
		ok, verb := s.verbMatches(p.er, "3", "SIN")
		// "wo er regen Anteil nahm"
		if !ok && !s.nextButOneIsModal(p.er) && verb.Text != "äußerst" && verb.Text != "regen" {
			if err := add(r.wrongVerbSubjectMatch(tokens[p.er], verb, "3:SIN")); err != nil {
				return nil, err
			}
		}
	}

	switch {
	case p.ver1Plu != -1 && p.wir == -1 && !s.isQuote(p.ver1Plu-1):
		matches = append(matches, wrongVerbMatch(tokens[p.ver1Plu]))
	case p.wir > 0 && !isNear(p.possible1Plu, p.wir) && !s.isQuote(p.wir-1):
		ok, verb := s.verbMatches(p.wir, "1", "PLU")
		if !ok && !s.nextButOneIsModal(p.wir) {
			if err := add(r.wrongVerbSubjectMatch(tokens[p.wir], verb, "1:PLU")); err != nil {
				return nil, err
			}
		}
	}
	return matches, nil
}

func (s segment) isQuote(i int) bool { return quotationMarks[s.tokens[i].Text] }

// pronounNotQuoted excludes pronouns inside quoted speech unless the quote
// opens the clause or follows a colon.
func (s segment) pronounNotQuoted(pos int) bool {
	return !s.isQuote(pos-1) || pos < 3 || s.tokens[pos-2].Text == ":"
}

// after returns the index following pos, or pos itself at the end of the segment.
func (s segment) after(pos int) int {
	if pos+1 == len(s.tokens) {
		return pos
	}
	return pos + 1
}

// nextButOneIsModal avoids "wenn ich sterben sollte".
func (s segment) nextButOneIsModal(pos int) bool {
	return pos < len(s.tokens)-2 && s.tokens[pos+2].HasPartialPosTag(":MOD:")
}

func isNear(a, b int) bool {
	if a == -1 {
		return false
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < proximity
}

// unambiguously reports whether every reading of the verb has the person and number.
func (s segment) unambiguously(tok model.Token, person, number string) bool {
	if tok.Text == "" || (typoutil.StartsWithUppercase(tok.Text) && !s.initial(tok)) || !tok.HasPosTagStartingWith("VER") {
		return false
	}
	want := ":" + person + ":" + number
	for _, r := range tok.Readings {
		if r.POSTag == "" {
			continue
		}
		if !strings.Contains(r.POSTag, want) {
			return false
		}
	}
	return true
}

// isFiniteVerb excludes participles, pronouns and numbers that share a verb reading.
func (s segment) isFiniteVerb(tok model.Token) bool {
	if tok.Text == "" || (typoutil.StartsWithUppercase(tok.Text) && !s.initial(tok)) || !tok.HasPosTagStartingWith("VER") {
		return false
	}
	if tok.HasPartialPosTag("PA2") || tok.HasPartialPosTag("PRO:") || tok.HasPartialPosTag("ZAL") || tok.Text == "einst" {
		return false
	}
	return tok.HasPartialPosTag(":1:") || tok.HasPartialPosTag(":2:") || tok.HasPartialPosTag(":3:")
}

// verbMatches looks at the neighbours of the pronoun at pos. It fails only when
// a finite verb is found and none of the neighbours has the person and number;
// the returned token is the last finite verb seen.
func (s segment) verbMatches(pos int, person, number string) (bool, model.Token) {
	before, next := s.tokens[pos-1], s.tokens[s.after(pos)]
	for _, t := range []model.Token{before, next} {
		if t.Text == "," || t.Text == "und" || t.Text == "sowie" {
			return true, model.Token{}
		}
	}
	want := ":" + person + ":" + number
	var verb model.Token
	found := false
	for _, t := range []model.Token{before, next} {
		if !s.isFiniteVerb(t) {
			continue
		}
		found, verb = true, t
		if t.HasPartialPosTag(want) {
			return true, verb
		}
	}
	return !found, verb
}

func wrongVerbMatch(verb model.Token) model.Match {
	return model.Match{
		RuleID: VerbRuleID,
		Offset: verb.StartPos,
		Length: verb.EndPos - verb.StartPos,
		Message: fmt.Sprintf("Möglicherweise fehlende grammatische Übereinstimmung zwischen Subjekt und Prädikat (%s) "+
			"bezüglich Person oder Numerus (Einzahl, Mehrzahl - Beispiel: 'Max bist' statt 'Max ist').", verb.Text),
		ShortMessage: verbShortMessage,
		Replacements: []string{},
	}
}

// wrongVerbSubjectMatch covers pronoun and verb and suggests changing either.
// Suggestions closest to the original text come first.
func (r *VerbRule) wrongVerbSubjectMatch(subject, verb model.Token, expected string) (*model.Match, error) {
	m := &model.Match{
		RuleID: VerbRuleID,
		Message: fmt.Sprintf("Möglicherweise fehlende grammatische Übereinstimmung zwischen Subjekt (%s) und Prädikat (%s) "+
			"bezüglich Person oder Numerus (Einzahl, Mehrzahl - Beispiel: 'ich sind' statt 'ich bin').", subject.Text, verb.Text),
		ShortMessage: verbShortMessage,
	}

	var suggestions []string
	var original string
	if subject.StartPos < verb.StartPos {
		m.Offset, m.Length = subject.StartPos, verb.EndPos-subject.StartPos
		original = subject.Text + " " + verb.Text
		verbs, err := r.verbSuggestions(verb, expected, false)
		if err != nil {
			return nil, err
		}
		for _, v := range verbs {
			suggestions = append(suggestions, subject.Text+" "+v)
		}
		for _, p := range pronounSuggestions(verb, typoutil.StartsWithUppercase(subject.Text)) {
			suggestions = append(suggestions, p+" "+verb.Text)
		}
	} else {
		m.Offset, m.Length = verb.StartPos, subject.EndPos-verb.StartPos
		original = verb.Text + " " + subject.Text
		verbs, err := r.verbSuggestions(verb, expected, typoutil.StartsWithUppercase(verb.Text))
		if err != nil {
			return nil, err
		}
		for _, v := range verbs {
			suggestions = append(suggestions, v+" "+subject.Text)
		}
		for _, p := range pronounSuggestions(verb, false) {
			suggestions = append(suggestions, verb.Text+" "+p)
		}
	}
	m.Replacements = typoutil.RankBySimilarity(suggestions, original)
	return m, nil
}

// verbSuggestions inflects the first verb reading for the expected person and number.
func (r *VerbRule) verbSuggestions(verb model.Token, expected string, uppercase bool) ([]string, error) {
	var reading model.Reading
	for _, rd := range verb.Readings {
		if strings.HasPrefix(rd.POSTag, "VER:") {
			reading = rd
			break
		}
	}
	if reading.Lemma == "" {
		return nil, nil
	}
	forms, err := r.synthesizer.SynthesizeRegexp(reading, "VER.*:"+expected+".*")
	if errors.Is(err, internalErrors.ErrWordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(forms))
	result := make([]string, 0, len(forms))
	for _, f := range forms {
		if uppercase {
			f = typoutil.UppercaseFirst(f)
		}
		if !seen[f] {
			seen[f] = true
			result = append(result, f)
		}
	}
	sort.Strings(result)
	return result, nil
}

// pronounSuggestions lists the pronouns any reading of the verb agrees with.
func pronounSuggestions(verb model.Token, uppercase bool) []string {
	var result []string
	seen := make(map[string]bool)
	for _, entry := range pronounsByVerbForm {
		if !verb.HasPartialPosTag(entry.form) {
			continue
		}
		for _, p := range entry.pronouns {
			if seen[p] {
				continue
			}
			seen[p] = true
			if uppercase {
				p = typoutil.UppercaseFirst(p)
			}
			result = append(result, p)
		}
	}
	return result
}
