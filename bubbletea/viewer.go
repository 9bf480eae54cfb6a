// Package bubbletea provides a terminal pager for grading reports using the
// Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/gradeview"
)

// Compile-time interface verification.
var _ gradeview.Viewer = (*Viewer)(nil)

// testPrefix marks the summary line that opens each graded test.
const testPrefix = "- "

// Model is the Bubble Tea model for paging through a report.
type Model struct {
	title     string
	content   string
	positions []int // Line index of each test summary line

	viewport   viewport.Model
	keymap     KeyMap
	styles     gradeview.Styles
	renderer   *lipgloss.Renderer
	width      int
	ready      bool
	pendingKey string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRenderer sets a custom lipgloss renderer for the model.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithTheme sets the theme for the model.
func WithTheme(t gradeview.Theme) ModelOption {
	return func(m *Model) {
		m.styles = t.Styles()
	}
}

// WithKeyMap sets the key bindings for the model.
func WithKeyMap(km KeyMap) ModelOption {
	return func(m *Model) {
		m.keymap = km
	}
}

// NewModel creates a new Model showing content under title.
func NewModel(title, content string, opts ...ModelOption) Model {
	m := Model{
		title:     title,
		content:   content,
		positions: testPositions(content),
		keymap:    DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// testPositions returns the line indices of test summary lines.
func testPositions(content string) []int {
	var positions []int
	for i, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(ansi.Strip(line), testPrefix) {
			positions = append(positions, i)
		}
	}
	return positions
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// gg goes to top
		if m.pendingKey == "g" && key.Matches(msg, m.keymap.GotoTop) {
			m.viewport.GotoTop()
			m.pendingKey = ""
			return m, nil
		}
		if key.Matches(msg, m.keymap.GotoTop) {
			m.pendingKey = "g"
			return m, nil
		}
		m.pendingKey = ""

		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.GotoBottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageDown):
			m.viewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keymap.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, m.keymap.NextTest):
			m.gotoNextTest()
			return m, nil
		case key.Matches(msg, m.keymap.PrevTest):
			m.gotoPrevTest()
			return m, nil
		}
	case tea.WindowSizeMsg:
		statusBarHeight := 1
		m.width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-statusBarHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - statusBarHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.statusBarView())
}

func (m *Model) gotoNextTest() {
	for _, pos := range m.positions {
		if pos > m.viewport.YOffset {
			m.viewport.SetYOffset(pos)
			return
		}
	}
}

func (m *Model) gotoPrevTest() {
	for i := len(m.positions) - 1; i >= 0; i-- {
		if m.positions[i] < m.viewport.YOffset {
			m.viewport.SetYOffset(m.positions[i])
			return
		}
	}
	m.viewport.GotoTop()
}

// currentTest returns the 1-based index of the last test starting at or
// above the top of the viewport, and the number of tests.
func (m Model) currentTest() (current, total int) {
	total = len(m.positions)
	for i, pos := range m.positions {
		if pos > m.viewport.YOffset {
			break
		}
		current = i + 1
	}
	return current, total
}

func (m Model) newStyle() lipgloss.Style {
	if m.renderer != nil {
		return m.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// statusBarView renders the title, test position, scroll position and help.
func (m Model) statusBarView() string {
	bar := m.newStyle()
	if fg := m.styles.Header.Foreground; fg != "" {
		bar = bar.Foreground(lipgloss.Color(fg))
	}
	if bg := m.styles.Header.Background; bg != "" {
		bar = bar.Background(lipgloss.Color(bg))
	}
	dim := bar
	if fg := m.styles.Marker.Foreground; fg != "" {
		dim = dim.Foreground(lipgloss.Color(fg))
	}

	current, total := m.currentTest()
	digits := len(fmt.Sprint(total))
	sep := dim.Render(" │ ")

	content := bar.Render(" "+m.title) + sep +
		bar.Render(fmt.Sprintf("test %*d/%-*d", digits, current, digits, total)) + sep +
		bar.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)) + sep +
		dim.Render("j/k:scroll  n/N:test  q:quit ")

	if w := lipgloss.Width(content); m.width > w {
		content += bar.Render(strings.Repeat(" ", m.width-w))
	}
	return content
}

// Viewer implements gradeview.Viewer using a Bubble Tea TUI.
type Viewer struct {
	opts []ModelOption
}

// NewViewer creates a new Viewer. Options are applied to every model it shows.
func NewViewer(opts ...ModelOption) *Viewer {
	return &Viewer{opts: opts}
}

// View displays content and blocks until the user exits or ctx is done.
func (v *Viewer) View(ctx context.Context, title, content string) error {
	m := NewModel(title, content, v.opts...)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
