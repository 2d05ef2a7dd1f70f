package pager

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"
)

func sized(t *testing.T, m Model, width, height int) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model)
}

func manyLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return strings.Join(lines, "\n")
}

func TestModel_NotReadyBeforeFirstResize(t *testing.T) {
	m := New(Options{FileName: "main.go", Content: "hello"})

	require.Equal(t, "loading...", m.View())
}

func TestModel_ViewShowsContentAndStatusBar(t *testing.T) {
	m := New(Options{FileName: "main.go", Language: "go", Content: "package main"})
	m = sized(t, m, 80, 24)

	view := m.View()
	require.Contains(t, view, "package main")
	require.Contains(t, view, "main.go")
	require.Contains(t, view, "go")
}

func TestModel_QuitKeys(t *testing.T) {
	quitKeys := map[string]tea.KeyMsg{
		"q":      {Type: tea.KeyRunes, Runes: []rune("q")},
		"esc":    {Type: tea.KeyEsc},
		"ctrl+c": {Type: tea.KeyCtrlC},
	}

	for name, key := range quitKeys {
		m := sized(t, New(Options{Content: "x"}), 80, 24)

		_, cmd := m.Update(key)
		require.NotNil(t, cmd, "key %q should quit", name)
		require.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_ScrollKeys(t *testing.T) {
	m := sized(t, New(Options{Content: manyLines(100)}), 80, 10)
	require.Equal(t, 0, m.viewport.YOffset)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = updated.(Model)
	require.Equal(t, 1, m.viewport.YOffset)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	m = updated.(Model)
	require.Equal(t, 0, m.viewport.YOffset)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	m = updated.(Model)
	require.True(t, m.viewport.AtBottom())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	m = updated.(Model)
	require.True(t, m.viewport.AtTop())
}

func TestModel_ReloadReplacesContent(t *testing.T) {
	m := sized(t, New(Options{
		FileName: "main.go",
		Follow:   true,
		Content:  "old",
		Reload:   func() (string, error) { return "new", nil },
	}), 80, 24)

	updated, cmd := m.Update(fileChangedMsg{})
	m = updated.(Model)
	require.NotNil(t, cmd, "change should trigger a reload command")

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	require.Contains(t, m.View(), "new")
	require.NotContains(t, m.View(), "old")
}

func TestModel_ReloadErrorShownInStatusBar(t *testing.T) {
	m := sized(t, New(Options{
		FileName: "main.go",
		Follow:   true,
		Content:  "old",
		Reload:   func() (string, error) { return "", errors.New("boom") },
	}), 80, 24)

	updated, _ := m.Update(reloadedMsg{err: errors.New("boom")})
	m = updated.(Model)

	require.Contains(t, m.View(), "boom")
	require.Contains(t, m.View(), "old", "failed reload keeps previous content")
}

func TestModel_FollowTailsWhenAtBottom(t *testing.T) {
	m := sized(t, New(Options{Follow: true, Content: manyLines(50)}), 80, 10)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	m = updated.(Model)
	require.True(t, m.viewport.AtBottom())

	updated, _ = m.Update(reloadedMsg{content: manyLines(80)})
	m = updated.(Model)
	require.True(t, m.viewport.AtBottom(), "tail position should stick across reloads")
}

func TestModel_StatusBarTruncatesOnNarrowTerminal(t *testing.T) {
	m := sized(t, New(Options{
		FileName: "a-very-long-file-name-that-cannot-possibly-fit.go",
		Language: "go",
		Content:  "x",
	}), 20, 10)

	// Must not panic and must stay renderable at tiny widths.
	require.NotEmpty(t, m.View())
}

func TestPager_QuitsOnQ(t *testing.T) {
	tm := teatest.NewTestModel(t, New(Options{FileName: "main.go", Content: "hello"}),
		teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(string(bts), "hello")
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
