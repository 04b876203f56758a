package verbagreement

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

func newSubjectVerbRule(t *testing.T) *SubjectVerbRule {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	rule, err := NewSubjectVerbRule(lex)
	require.NoError(t, err)
	return rule
}

func TestSubjectVerbRule_Info(t *testing.T) {
	rule := newSubjectVerbRule(t)
	assert.Equal(t, SubjectVerbRuleID, rule.ID())
	assert.Equal(t, SubjectVerbRuleID, rule.Info().ID)
	assert.Equal(t, categoryGrammar, rule.Info().Category)
}

func TestSubjectVerbRule_Evaluate(t *testing.T) {
	rule := newSubjectVerbRule(t)

	testutil.RunRuleTests(t, rule, []testutil.RuleTestCase{
		{
			Name:                     "plural subject with singular copula",
			Text:                     "Die Autos ist schnell.",
			ExpectedMatches:          1,
			ExpectedCovered:          "ist",
			ExpectedFirstReplacement: "sind",
			ValidateFunc: func(t *testing.T, matches []model.Match) {
				assert.Equal(t, "Bitte prüfen, ob hier 'sind' stehen sollte.", matches[0].Message)
			},
		},
		{
			Name:                     "coordinated subject",
			Text:                     "Der Hund und die Katze ist schnell.",
			ExpectedMatches:          1,
			ExpectedCovered:          "ist",
			ExpectedFirstReplacement: "sind",
		},
		{
			Name:                     "singular subject with plural copula",
			Text:                     "Der Hund sind schnell.",
			ExpectedMatches:          1,
			ExpectedCovered:          "sind",
			ExpectedFirstReplacement: "ist",
		},
		{
			Name:            "agreeing copula",
			Text:            "Die Autos sind schnell.",
			ExpectedMatches: 0,
		},
		{
			Name:            "plural predicate noun",
			Text:            "Die Zielgruppe sind Männer.",
			ExpectedMatches: 0,
		},
		{
			Name:            "nominalized infinitives",
			Text:            "Das Kopieren und Einfügen ist sehr nützlich.",
			ExpectedMatches: 0,
		},
		{
			Name:            "existential es",
			Text:            "Die Autos ist es nicht.",
			ExpectedMatches: 0,
		},
	})
}

func TestSubjectVerbRule_HandTagged(t *testing.T) {
	rule := newSubjectVerbRule(t)

	// the chunker does not run on hand-tagged sentences, so chunk tags are set here
	build := func(t *testing.T, tagged string, chunks map[int][]string) model.Sentence {
		s := testutil.NewSentence(t, tagged)
		for i, tags := range chunks {
			s.Tokens[i].ChunkTags = tags
		}
		return s
	}

	tests := []struct {
		name            string
		sentence        string
		chunks          map[int][]string
		expectedMatches int
	}{
		{
			name:            "plural noun phrase",
			sentence:        "Die/der@ART:DEF:NOM:PLU:NEU Autos/Auto@SUB:NOM:PLU:NEU ist/sein@VER:AUX:3:SIN:PRÄ schnell/schnell@ADJ:PRD:GRU",
			chunks:          map[int][]string{1: {"B-NP", "NPP"}, 2: {"I-NP", "NPP"}},
			expectedMatches: 1,
		},
		{
			name:            "prepositional phrase",
			sentence:        "In/in@PRP:LOK:DAT den/der@ART:DEF:DAT:PLU:NEU Autos/Auto@SUB:DAT:PLU:NEU ist/sein@VER:AUX:3:SIN:PRÄ es/es@PRO:PER:NOM:SIN:NEU",
			chunks:          map[int][]string{2: {"B-NP", "NPP", "PP"}, 3: {"I-NP", "NPP", "PP"}},
			expectedMatches: 0,
		},
		{
			name:            "currency",
			sentence:        "Zehn/zehn@ZAL Euro/Euro@SUB:NOM:PLU:MAS ist/sein@VER:AUX:3:SIN:PRÄ viel/viel@ADJ:PRD:GRU",
			chunks:          map[int][]string{1: {"B-NP", "NPP"}, 2: {"I-NP", "NPP"}},
			expectedMatches: 0,
		},
		{
			name:            "not nominative",
			sentence:        "Den/der@ART:DEF:DAT:PLU:NEU Autos/Auto@SUB:DAT:PLU:NEU ist/sein@VER:AUX:3:SIN:PRÄ kalt/kalt@ADJ:PRD:GRU",
			chunks:          map[int][]string{1: {"B-NP", "NPP"}, 2: {"I-NP", "NPP"}},
			expectedMatches: 0,
		},
		{
			name:            "unknown word on the left",
			sentence:        "Die/der@ART:DEF:NOM:PLU:NEU Blorfs Autos/Auto@SUB:NOM:PLU:NEU ist/sein@VER:AUX:3:SIN:PRÄ schnell/schnell@ADJ:PRD:GRU",
			chunks:          map[int][]string{1: {"B-NP", "NPP"}, 3: {"I-NP", "NPP"}},
			expectedMatches: 0,
		},
		{
			name:            "quantifier on the left",
			sentence:        "Alle/all@PRO:IND:NOM:PLU:NEU Autos/Auto@SUB:NOM:PLU:NEU ist/sein@VER:AUX:3:SIN:PRÄ schnell/schnell@ADJ:PRD:GRU",
			chunks:          map[int][]string{1: {"B-NP", "NPP"}, 2: {"I-NP", "NPP"}},
			expectedMatches: 0,
		},
		{
			name:            "unknown word on the right of a plural copula",
			sentence:        "Der/der@ART:DEF:NOM:SIN:MAS Hund/Hund@SUB:NOM:SIN:MAS sind/sein@VER:AUX:3:PLU:PRÄ blorfig .",
			chunks:          map[int][]string{1: {"B-NP", "NPS"}, 2: {"I-NP", "NPS"}},
			expectedMatches: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := rule.Evaluate(context.Background(), build(t, tt.sentence, tt.chunks))
			require.NoError(t, err)
			assert.Len(t, matches, tt.expectedMatches)
		})
	}
}

func TestContainsOnlyInfinitivesToTheLeft(t *testing.T) {
	rule := newSubjectVerbRule(t)

	tests := []struct {
		name     string
		sentence string
		want     bool
	}{
		{"two infinitives", "Das/der@ART:DEF:NOM:SIN:NEU Kopieren/Kopieren@SUB:NOM:SIN:NEU:INF und/und@KON:NEB Einfügen/Einfügen@SUB:NOM:SIN:NEU:INF", true},
		{"one infinitive", "Das/der@ART:DEF:NOM:SIN:NEU Kopieren/Kopieren@SUB:NOM:SIN:NEU:INF", false},
		{"regular noun", "Das/der@ART:DEF:NOM:SIN:NEU Kopieren/Kopieren@SUB:NOM:SIN:NEU:INF und/und@KON:NEB Haus/Haus@SUB:NOM:SIN:NEU", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewSentence(t, tt.sentence)
			got, err := rule.containsOnlyInfinitivesToTheLeft(s.Tokens, len(s.Tokens)-1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
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

func TestSubjectVerbRule_ResourceErrorsAreFatal(t *testing.T) {
	rule, err := NewSubjectVerbRule(brokenTagger{})
	require.NoError(t, err)

	s := testutil.NewSentence(t, "Die/der@ART:DEF:NOM:PLU:NEU Autos/Auto@SUB:NOM:PLU:NEU ist/sein@VER:AUX:3:SIN:PRÄ schnell/schnell@ADJ:PRD:GRU")
	s.Tokens[1].ChunkTags = []string{"B-NP", "NPP"}
	s.Tokens[2].ChunkTags = []string{"I-NP", "NPP"}

	_, err = rule.Evaluate(context.Background(), s)
	assert.ErrorIs(t, err, internalErrors.ErrResourceUnavailable)
}
