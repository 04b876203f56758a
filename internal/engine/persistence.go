package engine

import (
	"fmt"
	"log/slog"
	"strings"
)

// restoreRuleState applies the saved enabled flags to the registry. Saved IDs
// of rules that no longer exist are logged and dropped.
func (e *Engine) restoreRuleState() error {
	state, err := e.stateStore.Load()
	if err != nil {
		return fmt.Errorf("failed to restore rule state: %w", err)
	}
	if len(state.Enabled) == 0 && len(state.Disabled) == 0 {
		return nil
	}

	unknown := e.registry.Restore(state)
	if len(unknown) > 0 {
		slog.Warn("ignoring saved state of unknown rules", slog.String("rules", strings.Join(unknown, ",")))
	}
	slog.Info("rule state restored",
		slog.Int("enabled", len(state.Enabled)),
		slog.Int("disabled", len(state.Disabled)))
	return nil
}

// persistRuleState saves the current enabled flags
func (e *Engine) persistRuleState() error {
	if err := e.stateStore.Save(e.registry.State()); err != nil {
		return fmt.Errorf("failed to persist rule state: %w", err)
	}
	return nil
}
