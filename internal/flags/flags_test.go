package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "known flag set to true returns true",
			registry: New(map[string]bool{FlagGuardedRescan: true}),
			flag:     FlagGuardedRescan,
			expected: true,
		},
		{
			name:     "known flag set to false returns false",
			registry: New(map[string]bool{FlagLexerContext: false}),
			flag:     FlagLexerContext,
			expected: false,
		},
		{
			name:     "unknown flag returns false",
			registry: New(map[string]bool{FlagGuardedRescan: true}),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "nil registry returns false",
			registry: nil,
			flag:     FlagGuardedRescan,
			expected: false,
		},
		{
			name:     "nil flags map returns false",
			registry: New(nil),
			flag:     FlagGuardedRescan,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_Value(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		fallback bool
		expected bool
	}{
		{
			name:     "set flag wins over fallback",
			registry: New(map[string]bool{FlagLexerContext: false}),
			flag:     FlagLexerContext,
			fallback: true,
			expected: false,
		},
		{
			name:     "unset flag returns fallback",
			registry: New(map[string]bool{FlagGuardedRescan: true}),
			flag:     FlagLexerContext,
			fallback: true,
			expected: true,
		},
		{
			name:     "nil registry returns fallback",
			registry: nil,
			flag:     FlagLexerContext,
			fallback: true,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Value(tt.flag, tt.fallback))
		})
	}
}

func TestRegistry_All_ReturnsDefensiveCopy(t *testing.T) {
	r := New(map[string]bool{FlagGuardedRescan: true})

	snapshot := r.All()
	snapshot[FlagGuardedRescan] = false
	snapshot["new-flag"] = true

	require.True(t, r.Enabled(FlagGuardedRescan))
	require.False(t, r.Enabled("new-flag"))
	require.Equal(t, map[string]bool{FlagGuardedRescan: true}, r.All())
}
