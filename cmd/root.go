package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hmgle/nvim-cat/internal/cache"
	"github.com/hmgle/nvim-cat/internal/config"
	"github.com/hmgle/nvim-cat/internal/detect"
	"github.com/hmgle/nvim-cat/internal/engine"
	"github.com/hmgle/nvim-cat/internal/flags"
	"github.com/hmgle/nvim-cat/internal/log"
	"github.com/hmgle/nvim-cat/internal/oracle"
	"github.com/hmgle/nvim-cat/internal/pager"
	"github.com/hmgle/nvim-cat/internal/render"
	"github.com/hmgle/nvim-cat/internal/watch"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	flagReg *flags.Registry

	flagLanguage string
	flagTheme    string
	flagNoPager  bool
	flagNumber   bool
	flagFollow   bool
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "nvim-cat [file...]",
	Short: "cat with editor-grade syntax highlighting",
	Long: `Print files to the terminal with full syntax highlighting.

Highlighting is reconstructed from per-position queries against a tiered
set of oracles (lexer, legacy scanner, static patterns) and cached by
content fingerprint. Reads stdin when no file is given or when the file
is "-".`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runCat,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/nvim-cat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"write debug logs to nvim-cat.log in the working directory")

	rootCmd.Flags().StringVarP(&flagLanguage, "language", "l", "",
		"language tag to highlight as, skipping detection")
	rootCmd.Flags().StringVarP(&flagTheme, "theme", "t", "",
		"color theme (see 'nvim-cat themes')")
	rootCmd.Flags().Bool("no-pager", false,
		"write straight to stdout even when it is a terminal")
	rootCmd.Flags().String("color", "",
		"when to color output: auto, always, or never (overrides config)")
	rootCmd.Flags().BoolVarP(&flagNumber, "number", "n", false,
		"number output lines")
	rootCmd.Flags().BoolVarP(&flagFollow, "follow", "f", false,
		"keep watching the file and reload on change (single file, pager only)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("ui.show_line_numbers", defaults.UI.ShowLineNumbers)
	viper.SetDefault("ui.tab_width", defaults.UI.TabWidth)
	viper.SetDefault("ui.color", defaults.UI.Color)
	viper.SetDefault("theme.name", defaults.Theme.Name)
	viper.SetDefault("cache.max_entries", defaults.Cache.MaxEntries)
	viper.SetDefault("cache.ttl_seconds", defaults.Cache.TTLSeconds)
	viper.SetDefault("pager.enabled", defaults.Pager.Enabled)
	viper.SetDefault("pager.follow_debounce_ms", defaults.Pager.FollowDebounceMS)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .nvim-cat/config.yaml (current directory)
		// 2. ~/.config/nvim-cat/config.yaml (user config)
		if _, err := os.Stat(".nvim-cat/config.yaml"); err == nil {
			viper.SetConfigFile(".nvim-cat/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "nvim-cat"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// First run - seed the user config with the commented template.
			if home, herr := os.UserHomeDir(); herr == nil {
				defaultPath := filepath.Join(home, ".config", "nvim-cat", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
	flagReg = flags.New(cfg.Flags)

	if flagDebug || os.Getenv("NVIM_CAT_DEBUG") != "" {
		if _, err := log.Init("nvim-cat.log"); err == nil {
			log.SetEnabled(true)
		}
	}
}

// newEngine wires the tier stack from configuration.
func newEngine(caches *cache.Manager) (*engine.Engine, error) {
	opts := engine.Options{
		Caches:             caches,
		ResultCacheEntries: cfg.Cache.MaxEntries,
		ResultCacheTTL:     time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		GuardedRescan:      flagReg.Enabled(flags.FlagGuardedRescan),
	}
	if cfg.Engine.ParserTierEnabled() {
		opts.TierA = oracle.NewChromaOracle(
			oracle.WithLexerContext(flagReg.Value(flags.FlagLexerContext, true)))
	}
	if cfg.Engine.LegacyTierEnabled() {
		opts.TierB = oracle.NewLegacyOracle()
	}
	if !cfg.Engine.PatternsTierEnabled() {
		// The pattern tier is the backstop and cannot be removed, only
		// reduced to the generic rules.
		log.Warn(log.CatConfig, "patterns tier cannot be disabled; ignoring engine.patterns_tier")
	}
	return engine.New(opts)
}

// newRenderer builds the renderer from config plus command-line
// overrides.
func newRenderer(forceColor bool) (*render.Renderer, error) {
	themeName := cfg.Theme.Name
	if flagTheme != "" {
		themeName = flagTheme
	}
	theme, err := render.ThemeByName(themeName)
	if err != nil {
		return nil, err
	}
	theme.ApplyOverrides(cfg.Theme.Colors)

	color := render.ColorEnabled(cfg.UI.Color)
	if forceColor && cfg.UI.Color != "never" {
		color = true
	}

	return render.New(render.Options{
		Theme:           theme,
		TabWidth:        cfg.UI.TabWidth,
		ShowLineNumbers: cfg.UI.ShowLineNumbers || flagNumber,
		Color:           color,
	}), nil
}

// splitLines breaks file content into lines without the trailing
// newline creating a phantom empty line.
func splitLines(content []byte) []string {
	text := strings.TrimSuffix(string(content), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// highlightFile reads, detects, highlights, and renders one input.
func highlightFile(eng *engine.Engine, detector *detect.Detector, renderer *render.Renderer, path string) (string, string, string, error) {
	var (
		content []byte
		err     error
		name    = path
	)
	if path == "-" {
		content, err = io.ReadAll(os.Stdin)
		name = "stdin"
	} else {
		content, err = os.ReadFile(path) //nolint:gosec // G304: user-supplied path is the point
	}
	if err != nil {
		return "", "", "", fmt.Errorf("reading %s: %w", name, err)
	}

	lang := flagLanguage
	if lang == "" {
		lang = detector.Language(name, content)
	}

	lines := splitLines(content)
	result := eng.Highlight(lines, lang)

	return renderer.Render(lines, &result), lang, result.Tier, nil
}

func runCat(cmd *cobra.Command, args []string) error {
	if colorMode, _ := cmd.Flags().GetString("color"); colorMode != "" {
		cfg.UI.Color = colorMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	noPager, _ := cmd.Flags().GetBool("no-pager")
	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	usePager := cfg.Pager.Enabled && !noPager && stdoutTTY &&
		!(len(args) == 1 && args[0] == "-")

	if flagFollow && (len(args) != 1 || args[0] == "-") {
		return fmt.Errorf("--follow needs exactly one file argument")
	}
	if flagFollow && !usePager {
		return fmt.Errorf("--follow needs the pager (terminal output without --no-pager)")
	}

	caches := cache.NewManager()
	eng, err := newEngine(caches)
	if err != nil {
		return fmt.Errorf("assembling highlight engine: %w", err)
	}
	detector := detect.New()
	renderer, err := newRenderer(usePager)
	if err != nil {
		return err
	}

	if usePager {
		return runPaged(eng, detector, renderer, args)
	}

	var firstErr error
	for _, path := range args {
		out, _, _, err := highlightFile(eng, detector, renderer, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nvim-cat: %v\n", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Print(out)
	}
	return firstErr
}

// runPaged shows each file in the interactive pager, wiring follow mode
// for single-file invocations.
func runPaged(eng *engine.Engine, detector *detect.Detector, renderer *render.Renderer, paths []string) error {
	for _, path := range paths {
		out, lang, tier, err := highlightFile(eng, detector, renderer, path)
		if err != nil {
			return err
		}

		opts := pager.Options{
			FileName: filepath.Base(path),
			Language: lang,
			Tier:     tier,
			Content:  out,
		}

		if flagFollow {
			debounce := time.Duration(cfg.Pager.FollowDebounceMS) * time.Millisecond
			w, err := watch.New(watch.Config{Path: path, DebounceDur: debounce})
			if err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			changes, err := w.Start()
			if err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			defer func() { _ = w.Stop() }()

			opts.Follow = true
			opts.Changes = changes
			opts.Reload = func() (string, error) {
				content, _, _, err := highlightFile(eng, detector, renderer, path)
				return content, err
			}
		}

		if err := pager.Run(opts); err != nil {
			return fmt.Errorf("running pager: %w", err)
		}
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
