package engine

import (
	"log/slog"

	"github.com/gcbaptista/go-grammar-checker/model"
)

// ListRules describes all registered rules with their current state
func (e *Engine) ListRules() []model.RuleInfo {
	return e.registry.List()
}

// GetRule describes one rule
func (e *Engine) GetRule(id string) (model.RuleInfo, error) {
	rule, err := e.registry.Get(id)
	if err != nil {
		return model.RuleInfo{}, err
	}
	for _, info := range e.registry.List() {
		if info.ID == rule.ID() {
			return info, nil
		}
	}
	return rule.Info(), nil
}

// SetRuleEnabled switches a rule on or off and persists the new state. The
// change is rolled back when it cannot be saved.
func (e *Engine) SetRuleEnabled(id string, enabled bool) (model.RuleInfo, error) {
	previous, err := e.GetRule(id)
	if err != nil {
		return model.RuleInfo{}, err
	}
	if err := e.registry.SetEnabled(id, enabled); err != nil {
		return model.RuleInfo{}, err
	}
	if err := e.persistRuleState(); err != nil {
		if rollbackErr := e.registry.SetEnabled(id, previous.Enabled); rollbackErr != nil {
			slog.Error("failed to roll back rule state", slog.String("rule_id", id), slog.String("error", rollbackErr.Error()))
		}
		return model.RuleInfo{}, err
	}

	slog.Info("rule state changed", slog.String("rule_id", id), slog.Bool("enabled", enabled))
	return e.GetRule(id)
}
