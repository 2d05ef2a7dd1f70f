// Package config provides configuration types and defaults for nvim-cat.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hmgle/nvim-cat/internal/log"
)

// Config holds all configuration options for nvim-cat.
type Config struct {
	UI     UIConfig        `mapstructure:"ui"`
	Theme  ThemeConfig     `mapstructure:"theme"`
	Cache  CacheConfig     `mapstructure:"cache"`
	Pager  PagerConfig     `mapstructure:"pager"`
	Engine EngineConfig    `mapstructure:"engine"`
	Flags  map[string]bool `mapstructure:"flags"`
}

// UIConfig holds output formatting options.
type UIConfig struct {
	ShowLineNumbers bool   `mapstructure:"show_line_numbers"`
	TabWidth        int    `mapstructure:"tab_width"`
	Color           string `mapstructure:"color"` // "auto" (default), "always", or "never"
}

// ThemeConfig selects a built-in palette and optional per-category overrides.
type ThemeConfig struct {
	// Name loads a built-in theme as the base.
	// Valid values: "default", "dracula", "nord", "mono"
	Name string `mapstructure:"name"`

	// Colors overrides individual category colors by name,
	// e.g. keyword: "#FF79C6". Unknown categories are ignored.
	Colors map[string]string `mapstructure:"colors"`
}

// CacheConfig sizes the highlight result cache.
type CacheConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// PagerConfig controls the interactive viewer.
type PagerConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	FollowDebounceMS int  `mapstructure:"follow_debounce_ms"`
}

// EngineConfig toggles individual highlight tiers. All tiers default to
// on; disabling a tier makes the engine fall through to the next one.
type EngineConfig struct {
	ParserTier   *bool `mapstructure:"parser_tier"`
	LegacyTier   *bool `mapstructure:"legacy_tier"`
	PatternsTier *bool `mapstructure:"patterns_tier"`
}

// ParserTierEnabled returns whether the parser tier is enabled (defaults to true if nil).
func (e EngineConfig) ParserTierEnabled() bool {
	return e.ParserTier == nil || *e.ParserTier
}

// LegacyTierEnabled returns whether the legacy tier is enabled (defaults to true if nil).
func (e EngineConfig) LegacyTierEnabled() bool {
	return e.LegacyTier == nil || *e.LegacyTier
}

// PatternsTierEnabled returns whether the pattern tier is enabled (defaults to true if nil).
func (e EngineConfig) PatternsTierEnabled() bool {
	return e.PatternsTier == nil || *e.PatternsTier
}

// Validate checks the configuration for errors.
// Returns nil when every set value is usable; zero values use defaults.
func (c Config) Validate() error {
	if c.UI.TabWidth < 0 {
		return fmt.Errorf("ui.tab_width must be non-negative, got %d", c.UI.TabWidth)
	}
	switch c.UI.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("ui.color must be \"auto\", \"always\", or \"never\", got %q", c.UI.Color)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be non-negative, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must be non-negative, got %d", c.Cache.TTLSeconds)
	}
	if c.Pager.FollowDebounceMS < 0 {
		return fmt.Errorf("pager.follow_debounce_ms must be non-negative, got %d", c.Pager.FollowDebounceMS)
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		UI: UIConfig{
			ShowLineNumbers: false,
			TabWidth:        8,
			Color:           "auto",
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Cache: CacheConfig{
			MaxEntries: 128,
			TTLSeconds: 600,
		},
		Pager: PagerConfig{
			Enabled:          true,
			FollowDebounceMS: 100,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# nvim-cat Configuration

# Output settings
ui:
  show_line_numbers: false  # Prefix each line with its number
  tab_width: 8              # Spaces per tab stop
  color: auto               # auto, always, or never

# Theme configuration
theme:
  # Built-in themes: default, dracula, nord, mono
  name: default
  # Override individual category colors:
  # colors:
  #   keyword: "#FF79C6"
  #   string: "#F1FA8C"
  #   comment: "#6272A4"

# Highlight result cache
cache:
  max_entries: 128  # Evicts the coldest fifth once full
  ttl_seconds: 600  # Entries older than this are dropped on access

# Interactive pager (used when stdout is a terminal)
pager:
  enabled: true
  follow_debounce_ms: 100  # Reload coalescing window for --follow

# Highlight tiers, tried in order until one produces spans
# engine:
#   parser_tier: true    # chroma lexers
#   legacy_tier: true    # hand-written per-language scanners
#   patterns_tier: true  # regex fallback tables

# Feature flags
# flags:
#   guarded-rescan: false
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
