package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-grammar-checker/internal/errors"
	"github.com/gcbaptista/go-grammar-checker/model"
)

type fakeRule struct {
	id      string
	enabled bool
}

func (f fakeRule) ID() string { return f.id }

func (f fakeRule) Info() model.RuleInfo {
	return model.RuleInfo{ID: f.id, Description: "fake " + f.id, Category: "GRAMMAR", Enabled: f.enabled}
}

func (f fakeRule) Evaluate(context.Context, model.Sentence) ([]model.Match, error) {
	return nil, nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(
		fakeRule{id: "B_RULE", enabled: true},
		fakeRule{id: "A_RULE", enabled: true},
		fakeRule{id: "OFF_RULE", enabled: false},
	)
	require.NoError(t, err)
	return r
}

func TestRegistry_Register(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Register(fakeRule{id: "A_RULE"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput, "duplicate IDs are rejected")

	err = r.Register(fakeRule{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput, "empty IDs are rejected")

	err = r.Register(nil)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	rule, err := r.Get("A_RULE")
	require.NoError(t, err)
	assert.Equal(t, "A_RULE", rule.ID())

	_, err = r.Get("MISSING")
	assert.ErrorIs(t, err, errors.ErrRuleNotFound)
}

func TestRegistry_ListKeepsRegistrationOrder(t *testing.T) {
	r := newTestRegistry(t)

	infos := r.List()
	require.Len(t, infos, 3)
	assert.Equal(t, "B_RULE", infos[0].ID)
	assert.Equal(t, "A_RULE", infos[1].ID)
	assert.Equal(t, "OFF_RULE", infos[2].ID)
	assert.False(t, infos[2].Enabled)
}

func TestRegistry_Active(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name        string
		ids         []string
		expected    []string
		expectError error
	}{
		{name: "all enabled", ids: nil, expected: []string{"B_RULE", "A_RULE"}},
		{name: "restricted", ids: []string{"A_RULE"}, expected: []string{"A_RULE"}},
		{name: "disabled rules stay off", ids: []string{"OFF_RULE"}, expected: []string{}},
		{name: "unknown rule", ids: []string{"NOPE"}, expectError: errors.ErrRuleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active, err := r.Active(tt.ids)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			got := make([]string, 0, len(active))
			for _, rule := range active {
				got = append(got, rule.ID())
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRegistry_SetEnabled(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SetEnabled("OFF_RULE", true))
	require.NoError(t, r.SetEnabled("A_RULE", false))
	assert.ErrorIs(t, r.SetEnabled("NOPE", true), errors.ErrRuleNotFound)

	active, err := r.Active(nil)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "B_RULE", active[0].ID())
	assert.Equal(t, "OFF_RULE", active[1].ID())
}

func TestRegistry_StateRoundTrip(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.SetEnabled("A_RULE", false))

	state := r.State()
	assert.Equal(t, []string{"A_RULE", "OFF_RULE"}, state.Disabled)
	assert.Equal(t, []string{"B_RULE"}, state.Enabled)

	fresh := newTestRegistry(t)
	state.Disabled = append(state.Disabled, "REMOVED_RULE")
	unknown := fresh.Restore(state)
	assert.Equal(t, []string{"REMOVED_RULE"}, unknown)
	assert.Equal(t, r.List(), fresh.List())
}

func TestFileStateStore(t *testing.T) {
	store := NewFileStateStore(t.TempDir())

	state, err := store.Load()
	require.NoError(t, err, "a missing file is an empty state")
	assert.Empty(t, state.Disabled)

	saved := State{Disabled: []string{"DE_AGREEMENT2"}, Enabled: []string{"DE_AGREEMENT"}}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestMemoryStateStore(t *testing.T) {
	store := NewMemoryStateStore()
	saved := State{Disabled: []string{"X"}}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}
