// Package analysis turns raw text into tagged and chunked sentences.
package analysis

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-grammar-checker/internal/tokenizer"
	"github.com/gcbaptista/go-grammar-checker/internal/typoutil"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// Pipeline runs sentence splitting, tagging and chunking. It keeps no per-call
// state, so one pipeline serves all requests.
type Pipeline struct {
	tagger  services.Tagger
	chunker services.Chunker
}

// NewPipeline creates a pipeline. The chunker may be nil, in which case no
// chunk tags are assigned.
func NewPipeline(tagger services.Tagger, chunker services.Chunker) *Pipeline {
	return &Pipeline{tagger: tagger, chunker: chunker}
}

// Analyze splits text into sentences. The text is NFC-normalized first and all
// offsets refer to the normalized text.
func (p *Pipeline) Analyze(ctx context.Context, text string) ([]model.Sentence, error) {
	text = typoutil.Normalize(text)
	segments := tokenizer.SplitSentences(text)
	sentences := make([]model.Sentence, 0, len(segments))

	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sentence, err := p.analyzeSegment(seg)
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, sentence)
	}
	return sentences, nil
}

func (p *Pipeline) analyzeSegment(seg tokenizer.Segment) (model.Sentence, error) {
	words := make([]string, len(seg.Words))
	for i, w := range seg.Words {
		words[i] = w.Text
	}
	readings, err := p.tagger.Tag(words)
	if err != nil {
		return model.Sentence{}, fmt.Errorf("failed to tag sentence at offset %d: %w", seg.Offset, err)
	}

	tokens := make([]model.Token, 0, len(seg.Words)+1)
	tokens = append(tokens, model.Token{
		SentenceStart: true,
		StartPos:      seg.Offset,
		EndPos:        seg.Offset,
	})
	for i, w := range seg.Words {
		tokens = append(tokens, model.Token{
			Text:             w.Text,
			StartPos:         w.Start,
			EndPos:           w.End,
			WhitespaceBefore: w.WhitespaceBefore,
			Readings:         readings[i],
		})
	}
	last := &tokens[len(tokens)-1]
	last.SentenceEnd = true
	last.ParagraphEnd = seg.ParagraphEnd

	if p.chunker != nil {
		p.chunker.Chunk(tokens)
	}
	return model.Sentence{Text: seg.Text, Offset: seg.Offset, Tokens: tokens}, nil
}
