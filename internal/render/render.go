// Package render turns highlighted span tables into styled terminal
// output. It owns tab expansion, the line-number gutter, and the
// color/no-color decision.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/hmgle/nvim-cat/internal/engine"
)

// Options configures a Renderer.
type Options struct {
	Theme           *Theme
	TabWidth        int
	ShowLineNumbers bool
	Color           bool
}

// Renderer renders lines with their resolved spans.
type Renderer struct {
	theme           *Theme
	tabWidth        int
	showLineNumbers bool
	color           bool
}

// New creates a Renderer. A nil theme falls back to the default theme,
// and a non-positive tab width falls back to 8.
func New(opts Options) *Renderer {
	theme := opts.Theme
	if theme == nil {
		theme = defaultTheme()
	}
	tabWidth := opts.TabWidth
	if tabWidth <= 0 {
		tabWidth = 8
	}
	return &Renderer{
		theme:           theme,
		tabWidth:        tabWidth,
		showLineNumbers: opts.ShowLineNumbers,
		color:           opts.Color,
	}
}

// ColorEnabled resolves a config color mode ("auto", "always", "never")
// against the terminal environment. "auto" honors NO_COLOR and requires
// stdout to be a color-capable terminal.
func ColorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if termenv.EnvNoColor() {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// Render renders a whole file. Lines beyond what the engine resolved
// render as plain text, so a short result never truncates output.
func (r *Renderer) Render(lines []string, result *engine.FileResult) string {
	gutterWidth := len(strconv.Itoa(len(lines)))

	var b strings.Builder
	for i, line := range lines {
		var spans engine.LineResult
		if result != nil && i < len(result.Lines) {
			spans = result.Lines[i]
		}
		b.WriteString(r.renderLine(line, spans, i+1, gutterWidth))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderLine renders one line: gutter, tab expansion, then styled runs.
func (r *Renderer) renderLine(line string, spans engine.LineResult, lineNo, gutterWidth int) string {
	var b strings.Builder

	if r.showLineNumbers {
		gutter := fmt.Sprintf("%*d  ", gutterWidth, lineNo)
		if r.color {
			gutter = r.theme.GutterStyle().Render(gutter)
		}
		b.WriteString(gutter)
	}

	runes := []rune(line)
	categories := r.categorize(runes, spans)

	// Emit maximal runs of one category so each run carries a single
	// escape sequence rather than one per rune.
	col := 0 // display column, for tab stops
	for i := 0; i < len(runes); {
		if runes[i] == '\t' {
			pad := r.tabWidth - col%r.tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			i++
			continue
		}

		cat := categories[i]
		j := i
		for j < len(runes) && runes[j] != '\t' && categories[j] == cat {
			col += runewidth.RuneWidth(runes[j])
			j++
		}

		run := string(runes[i:j])
		if r.color && cat != engine.CategoryPlain {
			run = r.theme.Style(cat).Render(run)
		}
		b.WriteString(run)
		i = j
	}

	return b.String()
}

// categorize builds the per-rune category table for a line. Columns not
// covered by any span are plain.
func (r *Renderer) categorize(runes []rune, spans engine.LineResult) []engine.Category {
	categories := make([]engine.Category, len(runes))
	for i := range categories {
		categories[i] = engine.CategoryPlain
	}
	for _, span := range spans {
		for col := span.StartCol; col <= span.EndCol && col < len(runes); col++ {
			if col < 0 {
				continue
			}
			categories[col] = span.Category
		}
	}
	return categories
}
