package bubbletea_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/gradeview/bubbletea"
	gvlipgloss "github.com/fwojciec/gradeview/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainRenderer creates a lipgloss renderer without colors so views can be
// compared as text.
func plainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

// report builds content with a summary line per test followed by filler
// lines, so each test starts a known number of lines apart.
func report(tests, filler int) string {
	var sb strings.Builder
	for i := 1; i <= tests; i++ {
		fmt.Fprintf(&sb, "- test%d: FAILED\n", i)
		for j := 0; j < filler; j++ {
			fmt.Fprintf(&sb, "  diff line %d.%d\n", i, j)
		}
	}
	return sb.String()
}

func newModel(title, content string) bubbletea.Model {
	return bubbletea.NewModel(title, content,
		bubbletea.WithRenderer(plainRenderer()),
		bubbletea.WithTheme(gvlipgloss.DefaultTheme()),
	)
}

func update(t *testing.T, m bubbletea.Model, msgs ...tea.Msg) bubbletea.Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(bubbletea.Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// firstLine returns the top line of the rendered view.
func firstLine(view string) string {
	line, _, _ := strings.Cut(view, "\n")
	return strings.TrimRight(line, " ")
}

func TestModel_Init(t *testing.T) {
	t.Parallel()

	assert.Nil(t, newModel("alice", "").Init())
}

func TestModel_ViewBeforeReady(t *testing.T) {
	t.Parallel()

	assert.Contains(t, newModel("alice", "x").View(), "Loading")
}

func TestModel_StatusBar(t *testing.T) {
	t.Parallel()

	m := update(t, newModel("alice", report(3, 1)), tea.WindowSizeMsg{Width: 80, Height: 20})

	view := m.View()
	lines := strings.Split(view, "\n")
	status := lines[len(lines)-1]

	assert.Contains(t, status, "alice")
	assert.Contains(t, status, "test 1/3")
	assert.Contains(t, status, "q:quit")
	assert.Equal(t, 80, lipgloss.Width(status), "status bar fills the window width")
}

func TestModel_Navigation(t *testing.T) {
	t.Parallel()

	size := tea.WindowSizeMsg{Width: 80, Height: 11}
	content := report(3, 20)

	tests := []struct {
		name   string
		keys   []tea.Msg
		top    string
		status string
	}{
		{name: "initial", top: "- test1: FAILED", status: "test 1/3"},
		{name: "down", keys: []tea.Msg{runes("j")}, top: "  diff line 1.0", status: "test 1/3"},
		{name: "next test", keys: []tea.Msg{runes("n")}, top: "- test2: FAILED", status: "test 2/3"},
		{name: "next twice", keys: []tea.Msg{runes("n"), runes("n")}, top: "- test3: FAILED", status: "test 3/3"},
		{name: "previous test", keys: []tea.Msg{runes("n"), runes("n"), runes("N")}, top: "- test2: FAILED", status: "test 2/3"},
		{name: "previous from first goes to top", keys: []tea.Msg{runes("j"), runes("N")}, top: "- test1: FAILED", status: "test 1/3"},
		{name: "bottom", keys: []tea.Msg{runes("G")}, top: "  diff line 3.11", status: "test 3/3"},
		{name: "gg returns to top", keys: []tea.Msg{runes("G"), runes("g"), runes("g")}, top: "- test1: FAILED", status: "test 1/3"},
		{name: "single g does nothing", keys: []tea.Msg{runes("n"), runes("g")}, top: "- test2: FAILED", status: "test 2/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := update(t, newModel("bob", content), size)
			m = update(t, m, tt.keys...)

			view := m.View()
			assert.Equal(t, tt.top, firstLine(view))
			assert.Contains(t, view, tt.status)
		})
	}
}

func TestModel_QuitOnQ(t *testing.T) {
	t.Parallel()

	tm := teatest.NewTestModel(t, newModel("alice", "report body\n"),
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("report body"))
	})

	tm.Send(runes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}

func TestModel_QuitOnCtrlC(t *testing.T) {
	t.Parallel()

	tm := teatest.NewTestModel(t, newModel("alice", ""),
		teatest.WithInitialTermSize(80, 24),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}

func TestModel_WindowResize(t *testing.T) {
	t.Parallel()

	tm := teatest.NewTestModel(t, newModel("alice", "resize test\n"),
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("resize test"))
	})

	tm.Send(tea.WindowSizeMsg{Width: 120, Height: 40})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("resize test"))
	})

	tm.Send(runes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}
