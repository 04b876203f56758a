// Package testing provides utilities and helpers for testing the grammar checker.
package testing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-grammar-checker/internal/analysis"
	"github.com/gcbaptista/go-grammar-checker/internal/chunking"
	"github.com/gcbaptista/go-grammar-checker/internal/lexicon"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// Lexicon returns the embedded lexicon, failing the test if it cannot be loaded
func Lexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err, "Failed to load lexicon")
	return lex
}

// NewPipeline creates an analysis pipeline over the embedded lexicon
func NewPipeline(t *testing.T) *analysis.Pipeline {
	return analysis.NewPipeline(Lexicon(t), chunking.New())
}

// AnalyzeAll tokenizes, tags and chunks text with the embedded lexicon
func AnalyzeAll(t *testing.T, text string) []model.Sentence {
	t.Helper()
	sentences, err := NewPipeline(t).Analyze(context.Background(), text)
	require.NoError(t, err, "Failed to analyze text")
	return sentences
}

// Analyze analyzes text that must consist of exactly one sentence
func Analyze(t *testing.T, text string) model.Sentence {
	t.Helper()
	sentences := AnalyzeAll(t, text)
	require.Len(t, sentences, 1, "Expected exactly one sentence in %q", text)
	return sentences[0]
}

// NewSentence builds a sentence from hand-tagged tokens separated by spaces.
// Each token is "text", "text/TAG" or "text/TAG|TAG"; a reading may name its
// lemma as "lemma@TAG", otherwise the lowercased text is used. Tokens without
// tags are unknown words.
//
//	NewSentence(t, "Die/der@ART:DEF:NOM:SIN:FEM Haus/Haus@SUB:NOM:SIN:NEU")
func NewSentence(t *testing.T, tagged string) model.Sentence {
	t.Helper()
	fields := strings.Fields(tagged)
	require.NotEmpty(t, fields, "Tagged sentence must not be empty")

	tokens := []model.Token{{SentenceStart: true}}
	texts := make([]string, 0, len(fields))
	pos := 0
	for i, field := range fields {
		text, tags, tagged := strings.Cut(field, "/")
		tok := model.Token{
			Text:             text,
			StartPos:         pos,
			EndPos:           pos + len([]rune(text)),
			WhitespaceBefore: i > 0,
		}
		if tagged {
			for _, raw := range strings.Split(tags, "|") {
				lemma, tag, hasLemma := strings.Cut(raw, "@")
				if !hasLemma {
					lemma, tag = strings.ToLower(text), raw
				}
				tok.Readings = append(tok.Readings, model.Reading{Lemma: lemma, POSTag: tag})
			}
		} else {
			tok.Readings = []model.Reading{{}}
		}
		tokens = append(tokens, tok)
		texts = append(texts, text)
		pos = tok.EndPos + 1
	}
	tokens[len(tokens)-1].SentenceEnd = true
	return model.Sentence{Text: strings.Join(texts, " "), Tokens: tokens}
}

// RuleTestCase represents a test case for a grammar rule
type RuleTestCase struct {
	Name string
	Text string
	// ExpectedMatches is the number of matches the rule must report
	ExpectedMatches int
	// ExpectedCovered is the text covered by the first match, if set
	ExpectedCovered string
	// ExpectedReplacements must all appear among the first match's replacements
	ExpectedReplacements []string
	// ExpectedFirstReplacement is the best suggestion, if set
	ExpectedFirstReplacement string
	// StableRuns re-checks the text this many times and requires the same
	// replacements in the same order every time
	StableRuns   int
	ValidateFunc func(t *testing.T, matches []model.Match)
}

// RunRuleTests analyzes each text and checks the matches of the rule
func RunRuleTests(t *testing.T, rule services.Rule, tests []RuleTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			matches := evaluateText(t, rule, tt.Text)
			for run := 0; run < tt.StableRuns; run++ {
				again := evaluateText(t, rule, tt.Text)
				require.Len(t, again, len(matches), "Run %d should find the same matches", run+1)
				for i := range matches {
					assert.Equal(t, matches[i].Replacements, again[i].Replacements, "Run %d should rank replacements identically", run+1)
				}
			}

			require.Len(t, matches, tt.ExpectedMatches, "Match count should match for %q: %+v", tt.Text, matches)
			if len(matches) == 0 {
				return
			}
			first := matches[0]
			assert.Equal(t, rule.ID(), first.RuleID, "Match should carry the rule ID")
			if tt.ExpectedCovered != "" {
				runes := []rune(tt.Text)
				assert.Equal(t, tt.ExpectedCovered, string(runes[first.Offset:first.Offset+first.Length]), "Covered text should match")
			}
			for _, r := range tt.ExpectedReplacements {
				assert.Contains(t, first.Replacements, r, "Replacements should contain %q", r)
			}
			if tt.ExpectedFirstReplacement != "" {
				require.NotEmpty(t, first.Replacements, "Expected at least one replacement")
				assert.Equal(t, tt.ExpectedFirstReplacement, first.Replacements[0], "Best replacement should match")
			}
			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, matches)
			}
		})
	}
}

func evaluateText(t *testing.T, rule services.Rule, text string) []model.Match {
	t.Helper()
	var matches []model.Match
	for _, sentence := range AnalyzeAll(t, text) {
		found, err := rule.Evaluate(context.Background(), sentence)
		require.NoError(t, err, "Evaluate should not fail")
		matches = append(matches, found...)
	}
	return matches
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 20 * time.Millisecond,
		LogProgress:  true,
	}
}

// WaitForJobCompletion polls a job until it completes or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress {
					t.Logf("Job %s completed successfully in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed:
				t.Fatalf("Job %s failed: %s", jobID, job.Error)
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a batch check job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedTexts int) {
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, model.JobTypeBatchCheck, job.Type, "Job type should match")
	assert.Len(t, job.Results, expectedTexts, "Job should have one result per text")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
