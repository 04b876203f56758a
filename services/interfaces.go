package services

import (
	"context"

	"github.com/gcbaptista/go-grammar-checker/model"
)

// Tagger assigns morphological readings to words
type Tagger interface {
	// Lookup returns all readings of a single word form. Unknown words yield an
	// error matching errors.ErrWordNotFound.
	Lookup(word string) ([]model.Reading, error)
	// Tag analyzes the words of one sentence in order. Unknown words get a single
	// untagged reading; the error is reserved for unusable resources.
	Tag(words []string) ([][]model.Reading, error)
}

// Synthesizer generates inflected forms, the inverse of Tagger
type Synthesizer interface {
	// Synthesize returns the forms of reading.Lemma whose tag matches tag. Tag fields
	// may list alternatives separated by "/", e.g. "ART:DEF:NOM:SIN/PLU:MAS".
	Synthesize(reading model.Reading, tag string) ([]string, error)
	// SynthesizeRegexp is like Synthesize but tag is a regular expression.
	SynthesizeRegexp(reading model.Reading, pattern string) ([]string, error)
}

// Chunker marks noun phrase boundaries on the tokens of one sentence
type Chunker interface {
	Chunk(tokens []model.Token)
}

// Rule is a grammar check evaluated sentence by sentence. Implementations keep
// no state between calls and may be used concurrently.
type Rule interface {
	ID() string
	Info() model.RuleInfo
	Evaluate(ctx context.Context, sentence model.Sentence) ([]model.Match, error)
}

// Analyzer turns raw text into tagged and chunked sentences
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]model.Sentence, error)
}

// Checker runs the enabled rules over a text
type Checker interface {
	Analyzer
	Check(ctx context.Context, text string, ruleIDs []string) (*model.CheckResult, error)
}

// RuleRegistry manages the set of known rules and their enabled state
type RuleRegistry interface {
	Register(rule Rule) error
	Get(id string) (Rule, error)
	List() []model.RuleInfo
	SetEnabled(id string, enabled bool) error
	// Active returns the enabled rules, restricted to ids when ids is not empty.
	Active(ids []string) ([]Rule, error)
}

// BatchChecker checks many texts in the background
type BatchChecker interface {
	CheckBatchAsync(texts []string, ruleIDs []string) (string, error) // Returns job ID
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

// Analytics collects check statistics for the dashboard
type Analytics interface {
	TrackCheck(event model.CheckEvent)
	GetDashboard() *model.AnalyticsDashboard
}
