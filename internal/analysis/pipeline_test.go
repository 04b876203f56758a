package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-grammar-checker/internal/chunking"
	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/lexicon"
	"github.com/gcbaptista/go-grammar-checker/model"
)

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	return NewPipeline(lex, chunking.New())
}

func TestAnalyze(t *testing.T) {
	sentences, err := newPipeline(t).Analyze(context.Background(), "Die Autos ist schnell. Der Haus wurde gebaut.")
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	first := sentences[0]
	assert.Equal(t, "Die Autos ist schnell.", first.Text)
	assert.Equal(t, 5, first.Len())
	assert.True(t, first.Tokens[0].SentenceStart)
	assert.True(t, first.Tokens[len(first.Tokens)-1].SentenceEnd)
	assert.True(t, first.Tokens[1].HasPosTagStartingWith("ART:DEF"), "sentence-initial word gets lowercase readings")
	assert.True(t, first.Tokens[2].HasChunkTag(chunking.PhrasePlural))

	second := sentences[1]
	assert.Equal(t, 23, second.Offset)
	assert.Equal(t, 23, second.Tokens[0].StartPos)
	assert.Equal(t, "Der Haus", second.Covered(1, 2))
	assert.True(t, second.Tokens[len(second.Tokens)-1].ParagraphEnd)
}

func TestAnalyze_Empty(t *testing.T) {
	sentences, err := newPipeline(t).Analyze(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, sentences)
}

func TestAnalyze_UnknownWord(t *testing.T) {
	sentences, err := newPipeline(t).Analyze(context.Background(), "Xyzzy")
	require.NoError(t, err)
	require.Len(t, sentences, 1)
	assert.False(t, sentences[0].Tokens[1].IsTagged())
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newPipeline(t).Analyze(ctx, "Der Mann schläft.")
	assert.ErrorIs(t, err, context.Canceled)
}

type brokenTagger struct{}

func (brokenTagger) Lookup(word string) ([]model.Reading, error) {
	return nil, errors.NewResourceError("lexicon", fmt.Errorf("closed"))
}

func (brokenTagger) Tag(words []string) ([][]model.Reading, error) {
	return nil, errors.NewResourceError("lexicon", fmt.Errorf("closed"))
}

func TestAnalyze_TaggerFailure(t *testing.T) {
	_, err := NewPipeline(brokenTagger{}, nil).Analyze(context.Background(), "Der Mann.")
	assert.ErrorIs(t, err, errors.ErrResourceUnavailable)
}
