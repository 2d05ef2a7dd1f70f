package render

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/hmgle/nvim-cat/internal/engine"
)

// Theme maps span categories to terminal styles.
type Theme struct {
	name   string
	styles map[engine.Category]lipgloss.Style
	gutter lipgloss.Style
}

// Name returns the theme's registered name.
func (t *Theme) Name() string { return t.name }

// Style returns the style for a category. Unknown categories render
// unstyled, same as plain text.
func (t *Theme) Style(cat engine.Category) lipgloss.Style {
	if s, ok := t.styles[cat]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// GutterStyle returns the style used for the line-number gutter.
func (t *Theme) GutterStyle() lipgloss.Style { return t.gutter }

// ApplyOverrides replaces individual category colors. Keys are category
// names ("keyword", "string", ...); unknown names are ignored so a
// config written for a newer build still loads.
func (t *Theme) ApplyOverrides(colors map[string]string) {
	for name, hex := range colors {
		cat := engine.Category(name)
		if _, known := t.styles[cat]; !known && cat != engine.CategoryPlain {
			continue
		}
		t.styles[cat] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
}

func newTheme(name string, gutter string, colors map[engine.Category]lipgloss.AdaptiveColor) *Theme {
	styles := make(map[engine.Category]lipgloss.Style, len(colors))
	for cat, color := range colors {
		style := lipgloss.NewStyle().Foreground(color)
		if cat == engine.CategoryKeyword {
			style = style.Bold(true)
		}
		styles[cat] = style
	}
	return &Theme{
		name:   name,
		styles: styles,
		gutter: lipgloss.NewStyle().Foreground(lipgloss.Color(gutter)),
	}
}

func defaultTheme() *Theme {
	return newTheme("default", "#696969", map[engine.Category]lipgloss.AdaptiveColor{
		engine.CategoryKeyword:  {Light: "#8839EF", Dark: "#CBA6F7"},
		engine.CategoryString:   {Light: "#DF8E1D", Dark: "#F9E2AF"},
		engine.CategoryComment:  {Light: "#9CA0B0", Dark: "#6C7086"},
		engine.CategoryNumber:   {Light: "#FE640B", Dark: "#FAB387"},
		engine.CategoryFunction: {Light: "#1E66F5", Dark: "#89B4FA"},
		engine.CategoryType:     {Light: "#179299", Dark: "#94E2D5"},
		engine.CategoryConstant: {Light: "#FE640B", Dark: "#FAB387"},
		engine.CategoryOperator: {Light: "#D20F39", Dark: "#F38BA8"},
		engine.CategoryPreproc:  {Light: "#E64553", Dark: "#F2CDCD"},
		engine.CategoryVariable: {Light: "#4C4F69", Dark: "#CDD6F4"},
	})
}

func draculaTheme() *Theme {
	return newTheme("dracula", "#6272A4", map[engine.Category]lipgloss.AdaptiveColor{
		engine.CategoryKeyword:  {Light: "#FF79C6", Dark: "#FF79C6"},
		engine.CategoryString:   {Light: "#F1FA8C", Dark: "#F1FA8C"},
		engine.CategoryComment:  {Light: "#6272A4", Dark: "#6272A4"},
		engine.CategoryNumber:   {Light: "#BD93F9", Dark: "#BD93F9"},
		engine.CategoryFunction: {Light: "#50FA7B", Dark: "#50FA7B"},
		engine.CategoryType:     {Light: "#8BE9FD", Dark: "#8BE9FD"},
		engine.CategoryConstant: {Light: "#BD93F9", Dark: "#BD93F9"},
		engine.CategoryOperator: {Light: "#FF79C6", Dark: "#FF79C6"},
		engine.CategoryPreproc:  {Light: "#FFB86C", Dark: "#FFB86C"},
		engine.CategoryVariable: {Light: "#F8F8F2", Dark: "#F8F8F2"},
	})
}

func nordTheme() *Theme {
	return newTheme("nord", "#4C566A", map[engine.Category]lipgloss.AdaptiveColor{
		engine.CategoryKeyword:  {Light: "#81A1C1", Dark: "#81A1C1"},
		engine.CategoryString:   {Light: "#A3BE8C", Dark: "#A3BE8C"},
		engine.CategoryComment:  {Light: "#4C566A", Dark: "#616E88"},
		engine.CategoryNumber:   {Light: "#B48EAD", Dark: "#B48EAD"},
		engine.CategoryFunction: {Light: "#88C0D0", Dark: "#88C0D0"},
		engine.CategoryType:     {Light: "#8FBCBB", Dark: "#8FBCBB"},
		engine.CategoryConstant: {Light: "#B48EAD", Dark: "#B48EAD"},
		engine.CategoryOperator: {Light: "#81A1C1", Dark: "#81A1C1"},
		engine.CategoryPreproc:  {Light: "#5E81AC", Dark: "#5E81AC"},
		engine.CategoryVariable: {Light: "#D8DEE9", Dark: "#D8DEE9"},
	})
}

// monoTheme keeps attribute-only styling for terminals without color.
func monoTheme() *Theme {
	styles := map[engine.Category]lipgloss.Style{
		engine.CategoryKeyword: lipgloss.NewStyle().Bold(true),
		engine.CategoryComment: lipgloss.NewStyle().Faint(true),
		engine.CategoryString:  lipgloss.NewStyle().Italic(true),
		engine.CategoryPreproc: lipgloss.NewStyle().Underline(true),
	}
	return &Theme{
		name:   "mono",
		styles: styles,
		gutter: lipgloss.NewStyle().Faint(true),
	}
}

var builtinThemes = map[string]func() *Theme{
	"default": defaultTheme,
	"dracula": draculaTheme,
	"nord":    nordTheme,
	"mono":    monoTheme,
}

// ThemeByName returns a fresh copy of a built-in theme.
func ThemeByName(name string) (*Theme, error) {
	if name == "" {
		name = "default"
	}
	ctor, ok := builtinThemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	return ctor(), nil
}

// ThemeNames lists the built-in themes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
