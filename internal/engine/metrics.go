package engine

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("grammar_checker.engine")
	meter  = otel.Meter("grammar_checker.engine")
)

// Prometheus collectors, exposed at /metrics
var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammar_checker_checks_total",
		Help: "Text checks by outcome",
	}, []string{"outcome"})

	matchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grammar_checker_matches_total",
		Help: "Reported matches by rule",
	}, []string{"rule_id"})

	skippedSentences = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grammar_checker_skipped_sentences_total",
		Help: "Sentences not checked because they exceed the token limit",
	})

	checkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grammar_checker_check_duration_seconds",
		Help:    "Latency of text checks",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
)

// OpenTelemetry instruments
var (
	ruleLatency metric.Float64Histogram
	ruleTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the otel instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		ruleLatency, err = meter.Float64Histogram(
			"rule_evaluate_duration_seconds",
			metric.WithDescription("Duration of a single rule evaluation on one sentence"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		ruleTotal, err = meter.Int64Counter(
			"rule_evaluate_total",
			metric.WithDescription("Total number of rule evaluations"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startCheckSpan creates the span covering one Check call
func startCheckSpan(ctx context.Context, textLength int, ruleCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Engine.Check",
		trace.WithAttributes(
			attribute.Int("check.text_length", textLength),
			attribute.Int("check.rules", ruleCount),
		),
	)
}

// startRuleSpan creates a span for one rule evaluated on one sentence
func startRuleSpan(ctx context.Context, ruleID string, offset int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Rule.Evaluate",
		trace.WithAttributes(
			attribute.String("rule.id", ruleID),
			attribute.Int("sentence.offset", offset),
		),
	)
}

// setCheckSpanResult sets the result attributes on a check span
func setCheckSpanResult(span trace.Span, sentences, matches int, success bool) {
	span.SetAttributes(
		attribute.Int("check.sentences", sentences),
		attribute.Int("check.matches", matches),
		attribute.Bool("check.success", success),
	)
}

// recordRuleMetrics records the otel metrics of one rule evaluation
func recordRuleMetrics(ctx context.Context, ruleID string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("rule_id", ruleID),
		attribute.Bool("success", success),
	)
	ruleLatency.Record(ctx, duration.Seconds(), attrs)
	ruleTotal.Add(ctx, 1, attrs)
}

// recordCheckMetrics records the Prometheus metrics of one Check call
func recordCheckMetrics(duration time.Duration, hits map[string]int, skipped int, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	checksTotal.WithLabelValues(outcome).Inc()
	checkDuration.Observe(duration.Seconds())
	if skipped > 0 {
		skippedSentences.Add(float64(skipped))
	}
	for ruleID, count := range hits {
		matchesTotal.WithLabelValues(ruleID).Add(float64(count))
	}
}
