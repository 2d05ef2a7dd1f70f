// Package flags provides feature flag support for controlled feature rollout.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"

	"github.com/hmgle/nvim-cat/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagGuardedRescan controls whether resolved span boundaries are
	// re-verified against the oracle before being accepted. Slower, but
	// catches oracles whose answers are not run-consistent.
	FlagGuardedRescan = "guarded-rescan"

	// FlagLexerContext controls whether the parser tier feeds preceding
	// lines to the lexer when classifying a line. Disabling it makes
	// multi-line constructs (block comments, raw strings) misclassify.
	FlagLexerContext = "lexer-context"
)

// Registry holds feature flag state loaded from configuration.
// Flags are read-only after initialization.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags (safe default).
// Returns false when called on nil registry (nil-safe).
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// Value returns the named flag's configured value, or fallback when the
// flag is absent. Used for flags whose safe default is on.
// Returns fallback when called on nil registry (nil-safe).
func (r *Registry) Value(name string, fallback bool) bool {
	if r == nil || r.flags == nil {
		return fallback
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unset flag accessed", "flag", name, "fallback", fallback)
		return fallback
	}
	return value
}

// All returns a copy of all flags (for debugging/logging).
// Returns an empty map if the registry is nil.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
