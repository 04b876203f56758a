package engine

import (
	"fmt"
	"log/slog"

	"github.com/gcbaptista/go-grammar-checker/config"
	"github.com/gcbaptista/go-grammar-checker/internal/agreement"
	"github.com/gcbaptista/go-grammar-checker/internal/analysis"
	"github.com/gcbaptista/go-grammar-checker/internal/analytics"
	"github.com/gcbaptista/go-grammar-checker/internal/chunking"
	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/internal/lexicon"
	"github.com/gcbaptista/go-grammar-checker/internal/rules"
	"github.com/gcbaptista/go-grammar-checker/internal/verbagreement"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// DefaultRules creates the German agreement rules in reporting order
func DefaultRules(tagger services.Tagger, synthesizer services.Synthesizer, cfg agreement.Config) ([]services.Rule, error) {
	phrase, err := agreement.NewRule(tagger, synthesizer, cfg)
	if err != nil {
		return nil, err
	}
	adjectiveNoun, err := agreement.NewAdjectiveNounRule(synthesizer)
	if err != nil {
		return nil, err
	}
	subjectVerb, err := verbagreement.NewSubjectVerbRule(tagger)
	if err != nil {
		return nil, err
	}
	verb, err := verbagreement.NewVerbRule(synthesizer)
	if err != nil {
		return nil, err
	}
	return []services.Rule{phrase, adjectiveNoun, subjectVerb, verb}, nil
}

// NewFromSettings loads the lexicon, builds the default rules and creates an
// engine. checker.enabled_rules switches off every rule it does not name;
// rule state saved at runtime is applied on top.
func NewFromSettings(settings *config.Settings) (*Engine, error) {
	lex, err := loadLexicon(settings.Lexicon.Path)
	if err != nil {
		return nil, err
	}

	ruleList, err := DefaultRules(lex, lex, agreement.Config{
		FilterSuggestions:       settings.Checker.FilterSuggestionsEnabled(),
		SuggestAdjectivePhrases: settings.Checker.SuggestAdjectivePhrases,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rules: %w", err)
	}

	registry, err := rules.NewRegistry(ruleList...)
	if err != nil {
		return nil, err
	}
	if err := applyEnabledRules(registry, settings.Checker.EnabledRules); err != nil {
		return nil, err
	}

	var stateStore rules.StateStore = rules.NewMemoryStateStore()
	if settings.Persistence.DataDir != "" {
		stateStore = rules.NewFileStateStore(settings.Persistence.DataDir)
	}

	return New(Options{
		Analyzer:          analysis.NewPipeline(lex, chunking.New()),
		Registry:          registry,
		StateStore:        stateStore,
		Analytics:         analytics.NewService(settings.Persistence.DataDir),
		MaxSentenceTokens: settings.Checker.MaxSentenceTokens,
		Parallelism:       settings.Checker.Parallelism,
		MaxBatchTexts:     settings.Jobs.MaxTexts,
		MaxWorkers:        settings.Jobs.MaxWorkers,
	})
}

func loadLexicon(path string) (*lexicon.Lexicon, error) {
	var (
		lex *lexicon.Lexicon
		err error
	)
	if path == "" {
		lex, err = lexicon.Default()
	} else {
		lex, err = lexicon.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}
	slog.Info("lexicon loaded", slog.String("path", path), slog.Int("forms", lex.Size()))
	return lex, nil
}

// applyEnabledRules disables every rule not listed. An empty list keeps all
// rules as registered.
func applyEnabledRules(registry *rules.Registry, enabled []string) error {
	if len(enabled) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		if _, err := registry.Get(id); err != nil {
			return errors.NewValidationError("checker.enabled_rules", fmt.Sprintf("unknown rule '%s'", id))
		}
		wanted[id] = true
	}
	for _, info := range registry.List() {
		if err := registry.SetEnabled(info.ID, wanted[info.ID]); err != nil {
			return err
		}
	}
	return nil
}
