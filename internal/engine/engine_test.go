package engine

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-grammar-checker/config"
	"github.com/gcbaptista/go-grammar-checker/internal/agreement"
	"github.com/gcbaptista/go-grammar-checker/internal/analytics"
	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/rules"
	testutil "github.com/gcbaptista/go-grammar-checker/internal/testing"
	"github.com/gcbaptista/go-grammar-checker/internal/verbagreement"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

func newDefaultEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewFromSettings(config.Default())
	require.NoError(t, err)
	t.Cleanup(eng.Stop)
	return eng
}

func covered(text string, m model.Match) string {
	runes := []rune(text)
	return string(runes[m.Offset : m.Offset+m.Length])
}

func TestEngine_Check(t *testing.T) {
	eng := newDefaultEngine(t)

	tests := []struct {
		name            string
		text            string
		ruleIDs         []string
		expectedCovered []string
		expectedRules   []string
	}{
		{
			name:            "second sentence",
			text:            "Die Autos sind schnell. Die Autos ist schnell.",
			ruleIDs:         []string{verbagreement.SubjectVerbRuleID},
			expectedCovered: []string{"ist"},
			expectedRules:   []string{verbagreement.SubjectVerbRuleID},
		},
		{
			name:            "matches ordered by offset",
			text:            "Ich bist über die Entwicklung sehr froh.",
			ruleIDs:         []string{verbagreement.VerbRuleID},
			expectedCovered: []string{"Ich bist", "bist"},
			expectedRules:   []string{verbagreement.VerbRuleID, verbagreement.VerbRuleID},
		},
		{
			name:            "correct text",
			text:            "Die Autos sind schnell.",
			expectedCovered: []string{},
			expectedRules:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eng.Check(context.Background(), tt.text, tt.ruleIDs)
			require.NoError(t, err)

			_, err = uuid.Parse(result.RequestID)
			assert.NoError(t, err, "request IDs are UUIDs")
			require.Len(t, result.Matches, len(tt.expectedCovered), "matches: %+v", result.Matches)

			for i, m := range result.Matches {
				assert.Equal(t, tt.expectedCovered[i], covered(tt.text, m))
				assert.Equal(t, tt.expectedRules[i], m.RuleID)
				assert.NotEmpty(t, m.ID)
			}
		})
	}
}

func TestEngine_CheckUnknownRule(t *testing.T) {
	eng := newDefaultEngine(t)
	_, err := eng.Check(context.Background(), "Die Autos ist schnell.", []string{"NO_SUCH_RULE"})
	assert.ErrorIs(t, err, errors.ErrRuleNotFound)
}

// stubRule reports one match per sentence, or fails with err
type stubRule struct {
	id  string
	err error
}

func (r stubRule) ID() string { return r.id }

func (r stubRule) Info() model.RuleInfo {
	return model.RuleInfo{ID: r.id, Category: "GRAMMAR", Enabled: true}
}

func (r stubRule) Evaluate(_ context.Context, sentence model.Sentence) ([]model.Match, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []model.Match{{RuleID: r.id, Offset: sentence.Offset, Length: 1, Replacements: []string{}}}, nil
}

func newStubEngine(t *testing.T, opts Options, ruleList ...services.Rule) *Engine {
	t.Helper()
	registry, err := rules.NewRegistry(ruleList...)
	require.NoError(t, err)
	opts.Analyzer = testutil.NewPipeline(t)
	opts.Registry = registry
	eng, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(eng.Stop)
	return eng
}

func TestEngine_CheckWithStubRules(t *testing.T) {
	t.Run("resource errors fail the whole check", func(t *testing.T) {
		broken := stubRule{id: "BROKEN", err: errors.NewResourceError("lexicon", io.ErrUnexpectedEOF)}
		eng := newStubEngine(t, Options{}, stubRule{id: "OK"}, broken)

		_, err := eng.Check(context.Background(), "Das Haus. Der Hund.", nil)
		assert.ErrorIs(t, err, errors.ErrResourceUnavailable)
	})

	t.Run("long sentences are skipped", func(t *testing.T) {
		eng := newStubEngine(t, Options{MaxSentenceTokens: 3}, stubRule{id: "OK"})

		result, err := eng.Check(context.Background(), "Das Haus. Der große alte Hund bellt laut.", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Sentences)
		require.Len(t, result.Matches, 1)
		assert.Equal(t, 0, result.Matches[0].Offset)
	})

	t.Run("analytics are tracked", func(t *testing.T) {
		tracker := analytics.NewService("")
		eng := newStubEngine(t, Options{Analytics: tracker, Parallelism: 1}, stubRule{id: "OK"})

		_, err := eng.Check(context.Background(), "Das Haus. Der Hund.", nil)
		require.NoError(t, err)

		dashboard := tracker.GetDashboard()
		assert.Equal(t, 1, dashboard.TotalChecks)
		assert.Equal(t, 2, dashboard.TotalMatches)
		require.Len(t, dashboard.TopRules, 1)
		assert.Equal(t, "OK", dashboard.TopRules[0].RuleID)
	})

	t.Run("cancelled context", func(t *testing.T) {
		eng := newStubEngine(t, Options{}, stubRule{id: "OK"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := eng.Check(ctx, "Das Haus.", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = New(Options{Analyzer: testutil.NewPipeline(t)})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestNewFromSettings_EnabledRules(t *testing.T) {
	settings := config.Default()
	settings.Checker.EnabledRules = []string{agreement.RuleID, verbagreement.VerbRuleID}

	eng, err := NewFromSettings(settings)
	require.NoError(t, err)
	t.Cleanup(eng.Stop)

	enabled := map[string]bool{}
	for _, info := range eng.ListRules() {
		enabled[info.ID] = info.Enabled
	}
	assert.Equal(t, map[string]bool{
		agreement.RuleID:                true,
		agreement.AdjectiveNounRuleID:   false,
		verbagreement.SubjectVerbRuleID: false,
		verbagreement.VerbRuleID:        true,
	}, enabled)

	settings.Checker.EnabledRules = []string{"NO_SUCH_RULE"}
	_, err = NewFromSettings(settings)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestEngine_SetRuleEnabledPersists(t *testing.T) {
	settings := config.Default()
	settings.Persistence.DataDir = t.TempDir()

	eng, err := NewFromSettings(settings)
	require.NoError(t, err)

	info, err := eng.SetRuleEnabled(verbagreement.SubjectVerbRuleID, false)
	require.NoError(t, err)
	assert.False(t, info.Enabled)

	_, err = eng.SetRuleEnabled("NO_SUCH_RULE", false)
	assert.ErrorIs(t, err, errors.ErrRuleNotFound)

	result, err := eng.Check(context.Background(), "Die Autos ist schnell.", nil)
	require.NoError(t, err)
	for _, m := range result.Matches {
		assert.NotEqual(t, verbagreement.SubjectVerbRuleID, m.RuleID)
	}
	eng.Stop()

	restarted, err := NewFromSettings(settings)
	require.NoError(t, err)
	t.Cleanup(restarted.Stop)

	info, err = restarted.GetRule(verbagreement.SubjectVerbRuleID)
	require.NoError(t, err)
	assert.False(t, info.Enabled, "disabled state survives a restart")
}

type failingStore struct{ rules.MemoryStateStore }

func (*failingStore) Save(rules.State) error { return io.ErrShortWrite }

func TestEngine_SetRuleEnabledRollsBack(t *testing.T) {
	eng := newStubEngine(t, Options{StateStore: &failingStore{}}, stubRule{id: "OK"})

	_, err := eng.SetRuleEnabled("OK", false)
	assert.ErrorIs(t, err, io.ErrShortWrite)

	info, err := eng.GetRule("OK")
	require.NoError(t, err)
	assert.True(t, info.Enabled)
}
