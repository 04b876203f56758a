package agreement

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/lexicon"
	testutil "github.com/gcbaptista/go-grammar-checker/internal/testing"
	"github.com/gcbaptista/go-grammar-checker/model"
)

func newTestRule(t *testing.T, cfg Config) *Rule {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	rule, err := NewRule(lex, lex, cfg)
	require.NoError(t, err)
	return rule
}

func TestRule_Info(t *testing.T) {
	rule := newTestRule(t, DefaultConfig())
	info := rule.Info()
	assert.Equal(t, RuleID, rule.ID())
	assert.Equal(t, RuleID, info.ID)
	assert.Equal(t, categoryGrammar, info.Category)
	assert.True(t, info.Enabled)
	assert.NotEmpty(t, info.Examples)
}

func TestRule_DeterminerNoun(t *testing.T) {
	rule := newTestRule(t, DefaultConfig())

	testutil.RunRuleTests(t, rule, []testutil.RuleTestCase{
		{
			Name:                     "wrong article",
			Text:                     "Der Haus wurde letztes Jahr gebaut.",
			ExpectedMatches:          1,
			ExpectedCovered:          "Der Haus",
			ExpectedReplacements:     []string{"Das Haus", "Dem Haus"},
			ExpectedFirstReplacement: "Dem Haus",
			ValidateFunc: func(t *testing.T, matches []model.Match) {
				assert.Contains(t, matches[0].Message, "Übereinstimmung des")
				assert.Equal(t, detNounShortMessage, matches[0].ShortMessage)
			},
		},
		{
			Name:            "correct phrases",
			Text:            "Der Mann sieht die Frau.",
			ExpectedMatches: 0,
		},
		{
			Name:            "company name",
			Text:            "Er kennt die Otto Christ AG.",
			ExpectedMatches: 0,
		},
		{
			Name:                 "suggestion order is stable",
			Text:                 "Der Haus wurde letztes Jahr gebaut.",
			ExpectedMatches:      1,
			ExpectedReplacements: []string{"Das Haus"},
			StableRuns:           5,
		},
		{
			Name:            "personal pronoun before noun",
			Text:            "Ich bin Arbeiter.",
			ExpectedMatches: 0,
		},
		{
			Name:            "relative pronoun after comma",
			Text:            "Das Haus, das Frauen gebaut haben.",
			ExpectedMatches: 0,
		},
		{
			Name:            "ignored noun",
			Text:            "Es ist ein Uhr.",
			ExpectedMatches: 0,
		},
		{
			Name:            "ignored pronoun",
			Text:            "Er hat allen Grund.",
			ExpectedMatches: 0,
		},
		{
			Name:                     "fused ins",
			Text:                     "Er geht ins Schule.",
			ExpectedMatches:          1,
			ExpectedCovered:          "ins Schule",
			ExpectedFirstReplacement: "in die Schule",
		},
		{
			Name:                     "fused zur",
			Text:                     "Er geht zur Haus.",
			ExpectedMatches:          1,
			ExpectedCovered:          "zur Haus",
			ExpectedFirstReplacement: "zum Haus",
		},
		{
			Name:                     "split compound",
			Text:                     "Er schrieb die Original Mail.",
			ExpectedMatches:          1,
			ExpectedCovered:          "die Original Mail",
			ExpectedReplacements:     []string{"die Originalmail", "die Original-Mail"},
			ExpectedFirstReplacement: "die Originalmail",
			ValidateFunc: func(t *testing.T, matches []model.Match) {
				assert.Equal(t, compoundMessage, matches[0].Message)
			},
		},
	})
}

func TestRule_DeterminerAdjectiveNoun(t *testing.T) {
	rule := newTestRule(t, DefaultConfig())

	testutil.RunRuleTests(t, rule, []testutil.RuleTestCase{
		{
			Name:            "adjective does not agree",
			Text:            "Das ist ein sehr kleiner Haus.",
			ExpectedMatches: 1,
			ExpectedCovered: "ein sehr kleiner Haus",
			ValidateFunc: func(t *testing.T, matches []model.Match) {
				assert.Equal(t, detAdjNounMessage, matches[0].Message)
				assert.Empty(t, matches[0].Replacements, "adjective phrases get no suggestions by default")
			},
		},
		{
			Name:            "modifier before adjective",
			Text:            "Das ist ein sehr kleines Haus.",
			ExpectedMatches: 0,
		},
		{
			Name:            "city adjective",
			Text:            "Er kaufte das Berliner Auto.",
			ExpectedMatches: 0,
		},
	})

	withSuggestions := newTestRule(t, Config{FilterSuggestions: true, SuggestAdjectivePhrases: true})
	testutil.RunRuleTests(t, withSuggestions, []testutil.RuleTestCase{
		{
			Name:                     "suggestion keeps the modifier",
			Text:                     "Das ist ein sehr kleiner Haus.",
			ExpectedMatches:          1,
			ExpectedFirstReplacement: "ein sehr kleines Haus",
			StableRuns:               5,
		},
	})
}

func TestRule_HandTagged(t *testing.T) {
	rule := newTestRule(t, DefaultConfig())

	tests := []struct {
		name            string
		sentence        string
		expectedMatches int
		replacements    []string
	}{
		{
			name:            "unknown categories are assumed correct",
			sentence:        "Der/der@ART:DEF:NOM:SIN:MAS Blorf/Blorf@SUB",
			expectedMatches: 0,
		},
		{
			name:            "untagged noun",
			sentence:        "Der/der@ART:DEF:NOM:SIN:MAS Blorf",
			expectedMatches: 0,
		},
		{
			name:            "substitutive pronoun cannot precede a noun",
			sentence:        "Meins/mein@PRO:POS:NOM:SIN:NEU:STV Haus/Haus@SUB:NOM:SIN:NEU",
			expectedMatches: 1,
			replacements:    []string{"Mein Haus", "Meinem Haus"},
		},
		{
			name:            "substitutive reading among others",
			sentence:        "Meins/mein@PRO:POS:NOM:SIN:NEU:STV|mein@PRO:POS:NOM:SIN:NEU:BEG Haus/Haus@SUB:NOM:SIN:NEU",
			expectedMatches: 0,
		},
		{
			name:            "numbers with units are skipped",
			sentence:        "ein/ein@ART:IND:NOM:SIN:NEU 500/500@ZAL Meter/Meter@SUB:NOM:PLU:MAS hohes/hoch@ADJ:NOM:SIN:NEU:GRU:IND Haus/Haus@SUB:NOM:SIN:NEU",
			expectedMatches: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := rule.Evaluate(context.Background(), testutil.NewSentence(t, tt.sentence))
			require.NoError(t, err)
			require.Len(t, matches, tt.expectedMatches)
			if tt.replacements != nil {
				assert.Equal(t, tt.replacements, matches[0].Replacements)
			}
		})
	}
}

type brokenTagger struct{}

func (brokenTagger) Lookup(string) ([]model.Reading, error) {
	return nil, internalErrors.NewResourceError("lexicon", io.ErrUnexpectedEOF)
}

func (brokenTagger) Tag([]string) ([][]model.Reading, error) {
	return nil, internalErrors.NewResourceError("lexicon", io.ErrUnexpectedEOF)
}

func TestRule_ResourceErrorsAreFatal(t *testing.T) {
	lex, err := lexicon.Default()
	require.NoError(t, err)
	rule, err := NewRule(brokenTagger{}, lex, DefaultConfig())
	require.NoError(t, err)

	sentence := testutil.NewSentence(t, "das/der@ART:DEF:NOM:SIN:NEU Berliner/Berliner@SUB:NOM:SIN:MAS Auto/Auto@SUB:NOM:SIN:NEU")
	_, err = rule.Evaluate(context.Background(), sentence)
	assert.ErrorIs(t, err, internalErrors.ErrResourceUnavailable)
}

func TestRule_CancelledContext(t *testing.T) {
	rule := newTestRule(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rule.Evaluate(ctx, testutil.Analyze(t, "Der Haus."))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPosAfterModifier(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     int
	}{
		{"no modifier", "ein/ein@ART:IND:NOM:SIN:NEU kleines Haus", 2},
		{"grading adverb", "ein/ein@ART:IND:NOM:SIN:NEU sehr kleines Haus", 3},
		{"measure", "ein/ein@ART:IND:NOM:SIN:NEU 142 Meter hohes Haus", 4},
		{"decimal measure", "ein/ein@ART:IND:NOM:SIN:NEU 1 , 5 Kilogramm schweres Paket", 6},
		{"number without unit", "ein/ein@ART:IND:NOM:SIN:NEU 142 Häuser", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewSentence(t, tt.sentence)
			assert.Equal(t, tt.want, posAfterModifier(2, s.Tokens))
		})
	}
}

func TestScan_PrecedingWord(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     string
	}{
		{"preposition", "Er/PRO:PER:NOM:SIN:MAS geht/VER:3:SIN:PRÄ mit/PRP:MOD:DAT die/der@ART:DEF:NOM:SIN:FEM Haus", "mit"},
		{"particle reading", "Er/PRO:PER:NOM:SIN:MAS geht/VER:3:SIN:PRÄ zu/PRP:LOK:DAT|PTK:ZUS die/der@ART:DEF:NOM:SIN:FEM Haus", ""},
		{"verb", "Er/PRO:PER:NOM:SIN:MAS sieht/VER:3:SIN:PRÄ die/der@ART:DEF:NOM:SIN:FEM Haus", ""},
		{"unknown word", "Er/PRO:PER:NOM:SIN:MAS blorft die/der@ART:DEF:NOM:SIN:FEM Haus", ""},
		{"sentence start", "die/der@ART:DEF:NOM:SIN:FEM Haus", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewSentence(t, tt.sentence)
			detIdx := len(s.Tokens) - 2
			sc := &scan{tokens: s.Tokens}
			assert.Equal(t, tt.want, sc.precedingWord(detIdx))
		})
	}
}
