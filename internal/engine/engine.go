// Package engine runs grammar rules over analyzed text. It ties together the
// analysis pipeline, the rule registry, background jobs and analytics.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/jobs"
	"github.com/gcbaptista/go-grammar-checker/internal/rules"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

const (
	defaultParallelism   = 4
	defaultMaxBatchTexts = 1000
	defaultMaxWorkers    = 2
)

// Options configures an Engine. Analyzer and Registry are required.
type Options struct {
	Analyzer   services.Analyzer
	Registry   *rules.Registry
	StateStore rules.StateStore  // defaults to an in-memory store
	Analytics  services.Analytics // optional

	// MaxSentenceTokens skips longer sentences; zero checks all
	MaxSentenceTokens int
	Parallelism       int
	MaxBatchTexts     int
	MaxWorkers        int
}

// Engine checks texts against the registered rules.
// It implements the services.Checker, services.BatchChecker and
// services.JobManager interfaces.
type Engine struct {
	analyzer          services.Analyzer
	registry          *rules.Registry
	stateStore        rules.StateStore
	analytics         services.Analytics
	jobManager        *jobs.Manager
	maxSentenceTokens int
	parallelism       int
	maxBatchTexts     int
}

// New creates an engine and restores the saved rule state
func New(opts Options) (*Engine, error) {
	if opts.Analyzer == nil {
		return nil, errors.NewValidationError("analyzer", "analyzer is required")
	}
	if opts.Registry == nil {
		return nil, errors.NewValidationError("registry", "rule registry is required")
	}
	if opts.StateStore == nil {
		opts.StateStore = rules.NewMemoryStateStore()
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = defaultParallelism
	}
	if opts.MaxBatchTexts <= 0 {
		opts.MaxBatchTexts = defaultMaxBatchTexts
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = defaultMaxWorkers
	}

	e := &Engine{
		analyzer:          opts.Analyzer,
		registry:          opts.Registry,
		stateStore:        opts.StateStore,
		analytics:         opts.Analytics,
		jobManager:        jobs.NewManager(opts.MaxWorkers),
		maxSentenceTokens: opts.MaxSentenceTokens,
		parallelism:       opts.Parallelism,
		maxBatchTexts:     opts.MaxBatchTexts,
	}
	if err := e.restoreRuleState(); err != nil {
		return nil, err
	}
	e.jobManager.Start()
	return e, nil
}

// Analyze splits text into tagged and chunked sentences
func (e *Engine) Analyze(ctx context.Context, text string) ([]model.Sentence, error) {
	return e.analyzer.Analyze(ctx, text)
}

// Check runs the enabled rules, restricted to ruleIDs when given, over text.
// Sentences are evaluated in parallel; matches are ordered by offset. Any rule
// error fails the whole call.
func (e *Engine) Check(ctx context.Context, text string, ruleIDs []string) (*model.CheckResult, error) {
	start := time.Now()

	active, err := e.registry.Active(ruleIDs)
	if err != nil {
		return nil, err
	}

	ctx, span := startCheckSpan(ctx, len(text), len(active))
	defer span.End()

	sentences, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		e.fail(span, start, err)
		return nil, fmt.Errorf("failed to analyze text: %w", err)
	}

	perSentence := make([][]model.Match, len(sentences))
	skipped := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, sentence := range sentences {
		if e.maxSentenceTokens > 0 && sentence.Len() > e.maxSentenceTokens {
			skipped++
			continue
		}
		g.Go(func() error {
			matches, err := evaluateSentence(gctx, active, sentence)
			if err != nil {
				return err
			}
			perSentence[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.fail(span, start, err)
		return nil, err
	}

	matches := make([]model.Match, 0)
	for _, found := range perSentence {
		matches = append(matches, found...)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Offset < matches[j].Offset
	})

	hits := make(map[string]int)
	tokens := 0
	for i := range matches {
		matches[i].ID = uuid.New().String()
		hits[matches[i].RuleID]++
	}
	for _, sentence := range sentences {
		tokens += sentence.Len()
	}

	took := time.Since(start)
	result := &model.CheckResult{
		RequestID: uuid.New().String(),
		Matches:   matches,
		Sentences: len(sentences),
		TookMs:    took.Milliseconds(),
	}

	setCheckSpanResult(span, len(sentences), len(matches), true)
	recordCheckMetrics(took, hits, skipped, true)
	if e.analytics != nil {
		e.analytics.TrackCheck(model.CheckEvent{
			Sentences:    len(sentences),
			Tokens:       tokens,
			RuleHits:     hits,
			ResponseTime: took,
		})
	}
	return result, nil
}

func (e *Engine) fail(span trace.Span, start time.Time, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	setCheckSpanResult(span, 0, 0, false)
	recordCheckMetrics(time.Since(start), nil, 0, false)
	if stderrors.Is(err, errors.ErrResourceUnavailable) {
		slog.Error("check failed on an unusable resource", slog.String("error", err.Error()))
	}
}

// evaluateSentence runs every rule on one sentence, keeping rule order
func evaluateSentence(ctx context.Context, active []services.Rule, sentence model.Sentence) ([]model.Match, error) {
	var matches []model.Match
	for _, rule := range active {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ruleCtx, span := startRuleSpan(ctx, rule.ID(), sentence.Offset)
		start := time.Now()
		found, err := rule.Evaluate(ruleCtx, sentence)
		recordRuleMetrics(ctx, rule.ID(), time.Since(start), err == nil)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return nil, fmt.Errorf("rule %s failed at offset %d: %w", rule.ID(), sentence.Offset, err)
		}
		span.End()
		matches = append(matches, found...)
	}
	return matches, nil
}

// Stop shuts down background jobs and saves analytics
func (e *Engine) Stop() {
	e.jobManager.Stop()
	if flusher, ok := e.analytics.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			slog.Warn("failed to save analytics", slog.String("error", err.Error()))
		}
	}
}

// Analytics returns the analytics collector, or nil when none is configured
func (e *Engine) Analytics() services.Analytics {
	return e.analytics
}
