package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hmgle/nvim-cat/internal/config"
	"github.com/hmgle/nvim-cat/internal/engine"
	"github.com/hmgle/nvim-cat/internal/render"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List built-in color themes",
	RunE:  runThemes,
}

var themesSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Persist a theme choice to the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemesSet,
}

func init() {
	themesCmd.AddCommand(themesSetCmd)
	rootCmd.AddCommand(themesCmd)
}

// sampleSpans highlights a short Go-flavored sample so each theme can
// show its colors.
var (
	sampleLine  = `func greet(name string) { return "hi " + name } // 42`
	sampleSpans = engine.LineResult{
		{StartCol: 0, EndCol: 3, Category: engine.CategoryKeyword},
		{StartCol: 5, EndCol: 9, Category: engine.CategoryFunction},
		{StartCol: 16, EndCol: 21, Category: engine.CategoryType},
		{StartCol: 26, EndCol: 31, Category: engine.CategoryKeyword},
		{StartCol: 33, EndCol: 37, Category: engine.CategoryString},
		{StartCol: 39, EndCol: 39, Category: engine.CategoryOperator},
		{StartCol: 48, EndCol: 52, Category: engine.CategoryComment},
	}
)

func runThemes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	color := render.ColorEnabled(cfg.UI.Color)

	for _, name := range render.ThemeNames() {
		theme, err := render.ThemeByName(name)
		if err != nil {
			return err
		}
		r := render.New(render.Options{Theme: theme, Color: color})
		result := engine.FileResult{Lines: []engine.LineResult{sampleSpans}}

		fmt.Fprintf(out, "%-10s %s", name, r.Render([]string{sampleLine}, &result))
	}
	return nil
}

func runThemesSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, err := render.ThemeByName(name); err != nil {
		return err
	}

	path, err := themeConfigPath()
	if err != nil {
		return err
	}

	theme := cfg.Theme
	theme.Name = name
	if err := config.SaveTheme(path, theme); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "theme %q saved to %s\n", name, path)
	return nil
}

// themeConfigPath is the file a theme choice is persisted to: the
// config file in use, or the user config location when none was loaded.
func themeConfigPath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating user config: %w", err)
	}
	return filepath.Join(home, ".config", "nvim-cat", "config.yaml"), nil
}
