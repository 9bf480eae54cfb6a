package lipgloss

import (
	"fmt"
	"strings"

	lipglosslib "github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/gradeview"
)

// tabWidth is the number of columns between tab stops.
const tabWidth = 8

// ExpandTabs converts tab characters to the appropriate number of spaces
// based on standard 8-column tab stops. The startCol parameter indicates
// the column position where the string begins, which affects how the first
// tab is expanded.
func ExpandTabs(s string, startCol int) string {
	if !strings.Contains(s, "\t") {
		return s
	}

	var sb strings.Builder
	col := startCol
	for _, r := range s {
		if r == '\t' {
			nextStop := ((col / tabWidth) + 1) * tabWidth
			sb.WriteString(strings.Repeat(" ", nextStop-col))
			col = nextStop
		} else {
			sb.WriteRune(r)
			col += lipglosslib.Width(string(r))
		}
	}
	return sb.String()
}

// RenderSource renders syntax-highlighted source lines with a line number
// gutter. Lines without tokens render as empty lines.
func (r *Renderer) RenderSource(lines [][]gradeview.Token) string {
	gutter := styleFromColorPair(r.styles.Marker, r.renderer)
	digits := len(fmt.Sprint(len(lines)))

	var sb strings.Builder
	for i, line := range lines {
		sb.WriteString(gutter.Render(fmt.Sprintf("%*d ", digits, i+1)))
		col := 0
		for _, tok := range line {
			text := ExpandTabs(tok.Text, col)
			col += lipglosslib.Width(text)

			style := r.renderer.NewStyle()
			if tok.Style.Foreground != "" {
				style = style.Foreground(lipglosslib.Color(tok.Style.Foreground))
			}
			if tok.Style.Bold {
				style = style.Bold(true)
			}
			sb.WriteString(style.Render(text))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
