// Package pager provides the interactive full-screen viewer used when
// stdout is a terminal. It wraps a viewport with vim-style scrolling, a
// status bar, and live reload for follow mode.
package pager

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/hmgle/nvim-cat/internal/log"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#343433", Dark: "#C1C6B2"}).
			Background(lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#353533"})

	statusNameStyle = lipgloss.NewStyle().Bold(true)
)

// ReloadFunc re-reads and re-highlights the watched file. Returned
// content replaces the viewport body.
type ReloadFunc func() (content string, err error)

// Options configures the pager.
type Options struct {
	FileName string
	Language string
	Tier     string
	Content  string

	// Follow enables live reload. Changes delivers debounced change
	// signals and Reload produces the refreshed content.
	Follow  bool
	Changes <-chan struct{}
	Reload  ReloadFunc
}

// fileChangedMsg signals that the watched file changed on disk.
type fileChangedMsg struct{}

// reloadedMsg carries freshly highlighted content after a change.
type reloadedMsg struct {
	content string
	err     error
}

// Model is the pager component state.
type Model struct {
	opts     Options
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	err      error
}

// New creates a pager model.
func New(opts Options) Model {
	return Model{opts: opts}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.opts.Follow && m.opts.Changes != nil {
		return m.waitForChange()
	}
	return nil
}

// waitForChange blocks on the next change signal.
func (m Model) waitForChange() tea.Cmd {
	changes := m.opts.Changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// reloadContent runs the reload callback off the update loop.
func (m Model) reloadContent() tea.Cmd {
	reload := m.opts.Reload
	return func() tea.Msg {
		content, err := reload()
		return reloadedMsg{content: content, err: err}
	}
}

// Update handles messages for the pager.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "j", "down", "enter":
			m.viewport.ScrollDown(1)
			return m, nil

		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil

		case "d", "ctrl+d":
			m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
			return m, nil

		case "u", "ctrl+u":
			m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
			return m, nil

		case " ", "f", "pgdown":
			m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
			return m, nil

		case "b", "pgup":
			m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
			return m, nil

		case "g", "home":
			m.viewport.GotoTop()
			return m, nil

		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := msg.Height - 1 // status bar
		if !m.ready {
			m.viewport = viewport.New(msg.Width, contentHeight)
			m.viewport.SetContent(m.opts.Content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentHeight
		}
		return m, nil

	case fileChangedMsg:
		log.Debug(log.CatPager, "File changed, reloading", "path", m.opts.FileName)
		return m, m.reloadContent()

	case reloadedMsg:
		if msg.err != nil {
			m.err = msg.err
			log.ErrorErr(log.CatPager, "Reload failed", msg.err, "path", m.opts.FileName)
			return m, m.waitForChange()
		}
		m.err = nil
		wasAtBottom := m.viewport.AtBottom()
		m.opts.Content = msg.content
		m.viewport.SetContent(msg.content)
		if wasAtBottom {
			// Follow mode tails the file like less +F.
			m.viewport.GotoBottom()
		}
		return m, m.waitForChange()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the viewport plus the status bar.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.viewport.View() + "\n" + m.statusBar()
}

// statusBar renders the bottom line: file name, language, scroll
// position, and any reload error.
func (m Model) statusBar() string {
	name := statusNameStyle.Render(m.opts.FileName)

	var parts []string
	parts = append(parts, name)
	if m.opts.Language != "" {
		parts = append(parts, m.opts.Language)
	}
	if m.opts.Tier != "" {
		parts = append(parts, m.opts.Tier)
	}
	if m.opts.Follow {
		parts = append(parts, "following")
	}
	if m.err != nil {
		parts = append(parts, fmt.Sprintf("reload error: %v", m.err))
	}
	left := strings.Join(parts, "  ")

	right := fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		left = truncate.StringWithTail(left, uint(max(0, m.width-lipgloss.Width(right)-5)), "…")
		gap = m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if gap < 1 {
			gap = 1
		}
	}

	bar := " " + left + strings.Repeat(" ", gap) + right + " "
	return statusBarStyle.Width(m.width).Render(bar)
}

// Run starts the pager in the alternate screen and blocks until the
// user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
