package lipgloss

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	lipglosslib "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/gradeview"
	"github.com/muesli/termenv"
)

// Compile-time interface verification.
var _ gradeview.Renderer = (*Renderer)(nil)

// DefaultWidth is the default column width of each side of the diff.
const DefaultWidth = 40

// gap separates the expected and actual columns.
const gap = "  "

// Renderer lays out classified spans as a side-by-side colored diff.
type Renderer struct {
	styles   gradeview.Styles
	renderer *lipglosslib.Renderer
	width    int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithWidth sets the wrap width of each column. Zero or less disables wrapping.
func WithWidth(width int) RendererOption {
	return func(r *Renderer) {
		r.width = width
	}
}

// WithLipglossRenderer sets the lipgloss renderer used for color output.
func WithLipglossRenderer(lr *lipglosslib.Renderer) RendererOption {
	return func(r *Renderer) {
		if lr != nil {
			r.renderer = lr
		}
	}
}

// WithPlain disables all escape sequences in the output.
func WithPlain() RendererOption {
	return func(r *Renderer) {
		r.renderer = PlainRenderer()
	}
}

// PlainRenderer returns a lipgloss renderer that never emits escape sequences.
func PlainRenderer() *lipglosslib.Renderer {
	return lipglosslib.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
}

// ColorRenderer returns a lipgloss renderer forced to true color output.
func ColorRenderer(w io.Writer) *lipglosslib.Renderer {
	r := lipglosslib.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// NewRenderer creates a Renderer using the colors of theme.
// Without options it wraps at DefaultWidth and detects the color profile
// of standard output.
func NewRenderer(theme gradeview.Theme, opts ...RendererOption) *Renderer {
	r := &Renderer{
		styles:   theme.Styles(),
		renderer: lipglosslib.DefaultRenderer(),
		width:    DefaultWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Strip removes escape sequences from already rendered text.
func Strip(s string) string {
	return ansi.Strip(s)
}

// cell is one display unit of a line: a rune, an escaped control
// character or a tab. Tabs get their width when the line is wrapped.
type cell struct {
	text  string
	color gradeview.Color
	width int
	tab   bool
}

// fragment is a wrapped piece of a line, ready to be styled.
type fragment struct {
	spans []gradeview.ColorSpan
	width int
}

// Render returns one row per wrapped line pair: the expected fragment
// delimited by ^ and $, padded to a fixed column, then the actual fragment.
// The shorter side is padded with empty fragments.
func (r *Renderer) Render(expected, actual []gradeview.ColorSpan) string {
	left := r.fragments(expected)
	right := r.fragments(actual)

	column := r.width
	if column <= 0 {
		column = 0
		for _, f := range left {
			column = max(column, f.width)
		}
	}

	rows := max(len(left), len(right))
	var sb strings.Builder
	for i := 0; i < rows; i++ {
		var l, rt fragment
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			rt = right[i]
		}

		sb.WriteString(r.delimit(l))
		if pad := column - l.width; pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(gap)
		sb.WriteString(r.delimit(rt))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Heading renders a section heading.
func (r *Renderer) Heading(text string) string {
	return styleFromColorPair(r.styles.Header, r.renderer).Render(text)
}

// Verdict renders a verdict name colored by whether it is accepted.
func (r *Renderer) Verdict(v gradeview.Verdict) string {
	cp := r.styles.Rejected
	if v.Accepted() {
		cp = r.styles.Accepted
	}
	return styleFromColorPair(cp, r.renderer).Bold(true).Render(fmt.Sprintf("%-12s", v))
}

// delimit styles a fragment and wraps it in ^ and $ markers.
func (r *Renderer) delimit(f fragment) string {
	marker := styleFromColorPair(r.styles.Marker, r.renderer)

	var sb strings.Builder
	sb.WriteString(marker.Render("^"))
	for _, s := range f.spans {
		if s.Color == gradeview.ColorNone {
			sb.WriteString(s.Text)
			continue
		}
		sb.WriteString(styleFromColorPair(r.styles.ForColor(s.Color), r.renderer).Render(s.Text))
	}
	sb.WriteString(marker.Render("$"))
	return sb.String()
}

// fragments splits spans into lines and wraps each line to the renderer width.
func (r *Renderer) fragments(spans []gradeview.ColorSpan) []fragment {
	var out []fragment
	for _, line := range splitLines(spans) {
		out = append(out, wrap(line, r.width)...)
	}
	return out
}

// splitLines breaks spans into lines of cells. A trailing newline yields
// a final empty line. Control characters other than tabs are shown escaped.
func splitLines(spans []gradeview.ColorSpan) [][]cell {
	lines := [][]cell{nil}
	for _, s := range spans {
		for _, ru := range s.Text {
			last := len(lines) - 1
			switch {
			case ru == '\n':
				lines = append(lines, nil)
			case ru == '\t':
				lines[last] = append(lines[last], cell{color: s.Color, tab: true})
			case unicode.IsControl(ru):
				text := strings.Trim(strconv.QuoteRune(ru), "'")
				lines[last] = append(lines[last], cell{text: text, color: s.Color, width: len(text)})
			default:
				text := string(ru)
				lines[last] = append(lines[last], cell{text: text, color: s.Color, width: lipglosslib.Width(text)})
			}
		}
	}
	return lines
}

// wrap cuts a line into fragments no wider than width display columns.
// A single cell wider than width still gets its own fragment. Tab stops
// count from the start of each fragment; a tab crossing the wrap point
// fills the rest of its fragment.
func wrap(line []cell, width int) []fragment {
	var out []fragment
	var cur []cell
	w := 0
	for _, c := range line {
		if c.tab {
			if width > 0 && w >= width {
				out = append(out, merge(cur, w))
				cur, w = nil, 0
			}
			n := tabWidth - w%tabWidth
			if width > 0 {
				n = min(n, width-w)
			}
			c.text, c.width = strings.Repeat(" ", n), n
		} else if width > 0 && w > 0 && w+c.width > width {
			out = append(out, merge(cur, w))
			cur, w = nil, 0
		}
		cur = append(cur, c)
		w += c.width
	}
	return append(out, merge(cur, w))
}

// merge coalesces adjacent cells of the same color into spans.
func merge(cells []cell, width int) fragment {
	f := fragment{width: width}
	for _, c := range cells {
		if n := len(f.spans); n > 0 && f.spans[n-1].Color == c.color {
			f.spans[n-1].Text += c.text
			continue
		}
		f.spans = append(f.spans, gradeview.ColorSpan{Text: c.text, Color: c.color})
	}
	return f
}

// styleFromColorPair creates a lipgloss style from a color pair.
func styleFromColorPair(cp gradeview.ColorPair, renderer *lipglosslib.Renderer) lipglosslib.Style {
	style := renderer.NewStyle()
	if cp.Foreground != "" {
		style = style.Foreground(lipglosslib.Color(cp.Foreground))
	}
	if cp.Background != "" {
		style = style.Background(lipglosslib.Color(cp.Background))
	}
	return style
}
