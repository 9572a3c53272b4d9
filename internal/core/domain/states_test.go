package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestQueryState_IsValid tests state recognition
func TestQueryState_IsValid(t *testing.T) {
	tests := []struct {
		state QueryState
		valid bool
	}{
		{StateGated, true},
		{StateRetrieving, true},
		{StateAnswered, true},
		{StateRefused, true},
		{StateFailed, true},
		{QueryState("pending"), false},
		{QueryState(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.IsValid())
		})
	}
}

// TestQueryState_IsTerminal tests terminal state classification
func TestQueryState_IsTerminal(t *testing.T) {
	assert.False(t, StateGated.IsTerminal())
	assert.False(t, StateRetrieving.IsTerminal())
	assert.True(t, StateAnswered.IsTerminal())
	assert.True(t, StateRefused.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
}

// TestQueryState_CanTransition tests the allowed machine edges
func TestQueryState_CanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    QueryState
		to      QueryState
		allowed bool
	}{
		{"gated to refused", StateGated, StateRefused, true},
		{"gated to retrieving", StateGated, StateRetrieving, true},
		{"gated to answered", StateGated, StateAnswered, false},
		{"gated to failed", StateGated, StateFailed, true},
		{"retrieving to answered", StateRetrieving, StateAnswered, true},
		{"retrieving to failed", StateRetrieving, StateFailed, true},
		{"retrieving to refused", StateRetrieving, StateRefused, false},
		{"answered is terminal", StateAnswered, StateRetrieving, false},
		{"refused is terminal", StateRefused, StateRetrieving, false},
		{"failed is terminal", StateFailed, StateGated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

// TestQueryState_String tests the string representation
func TestQueryState_String(t *testing.T) {
	assert.Equal(t, "gated", StateGated.String())
	assert.Equal(t, "retrieving", StateRetrieving.String())
	assert.Equal(t, "answered", StateAnswered.String())
	assert.Equal(t, "refused", StateRefused.String())
	assert.Equal(t, "failed", StateFailed.String())
}

// TestQueryState_TerminalStatesHaveNoEdges tests that no transition leaves a terminal state
func TestQueryState_TerminalStatesHaveNoEdges(t *testing.T) {
	all := []QueryState{StateGated, StateRetrieving, StateAnswered, StateRefused, StateFailed}

	for _, from := range all {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range all {
			assert.False(t, from.CanTransition(to),
				"terminal state %s should not transition to %s", from, to)
		}
	}
}
