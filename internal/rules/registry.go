// Package rules keeps track of the grammar rules a checker can run.
package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

// Registry is an in-memory implementation of the services.RuleRegistry interface.
// Rules are listed in registration order.
type Registry struct {
	mutex   sync.RWMutex
	rules   map[string]services.Rule
	order   []string
	enabled map[string]bool
}

// NewRegistry creates a registry holding the given rules
func NewRegistry(rules ...services.Rule) (*Registry, error) {
	r := &Registry{
		rules:   make(map[string]services.Rule),
		enabled: make(map[string]bool),
	}
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a rule. Its initial state comes from RuleInfo.Enabled.
func (r *Registry) Register(rule services.Rule) error {
	if rule == nil {
		return errors.NewValidationError("rule", "rule cannot be nil")
	}
	id := rule.ID()
	if id == "" {
		return errors.NewValidationError("id", "rule ID cannot be empty")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.rules[id]; exists {
		return errors.NewValidationError("id", fmt.Sprintf("rule with ID %s already registered", id))
	}
	r.rules[id] = rule
	r.order = append(r.order, id)
	r.enabled[id] = rule.Info().Enabled
	return nil
}

// Get retrieves a rule by ID
func (r *Registry) Get(id string) (services.Rule, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rule, exists := r.rules[id]
	if !exists {
		return nil, errors.NewRuleNotFoundError(id)
	}
	return rule, nil
}

// List describes all rules with their current enabled state
func (r *Registry) List() []model.RuleInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	infos := make([]model.RuleInfo, 0, len(r.order))
	for _, id := range r.order {
		info := r.rules[id].Info()
		info.Enabled = r.enabled[id]
		infos = append(infos, info)
	}
	return infos
}

// SetEnabled switches a rule on or off
func (r *Registry) SetEnabled(id string, enabled bool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.rules[id]; !exists {
		return errors.NewRuleNotFoundError(id)
	}
	r.enabled[id] = enabled
	return nil
}

// Active returns the enabled rules. A non-empty ids list restricts the result
// to those rules; an unknown ID is an error.
func (r *Registry) Active(ids []string) ([]services.Rule, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var wanted map[string]bool
	if len(ids) > 0 {
		wanted = make(map[string]bool, len(ids))
		for _, id := range ids {
			if _, exists := r.rules[id]; !exists {
				return nil, errors.NewRuleNotFoundError(id)
			}
			wanted[id] = true
		}
	}

	active := make([]services.Rule, 0, len(r.order))
	for _, id := range r.order {
		if !r.enabled[id] {
			continue
		}
		if wanted != nil && !wanted[id] {
			continue
		}
		active = append(active, r.rules[id])
	}
	return active, nil
}

// State is the persistent part of a registry
type State struct {
	Disabled []string
	Enabled  []string
}

// State captures which rules are switched on and off
func (r *Registry) State() State {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var s State
	for _, id := range r.order {
		if r.enabled[id] {
			s.Enabled = append(s.Enabled, id)
		} else {
			s.Disabled = append(s.Disabled, id)
		}
	}
	sort.Strings(s.Enabled)
	sort.Strings(s.Disabled)
	return s
}

// Restore applies a saved state. IDs of rules that are no longer registered are
// ignored and returned.
func (r *Registry) Restore(s State) []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var unknown []string
	apply := func(ids []string, enabled bool) {
		for _, id := range ids {
			if _, exists := r.rules[id]; !exists {
				unknown = append(unknown, id)
				continue
			}
			r.enabled[id] = enabled
		}
	}
	apply(s.Enabled, true)
	apply(s.Disabled, false)
	return unknown
}
