package lipgloss_test

import (
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/gradeview"
	"github.com/fwojciec/gradeview/lcs"
	"github.com/fwojciec/gradeview/lipgloss"
	"github.com/fwojciec/gradeview/verdict"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainRenderer(width int) *lipgloss.Renderer {
	return lipgloss.NewRenderer(lipgloss.DefaultTheme(), lipgloss.WithPlain(), lipgloss.WithWidth(width))
}

func colorRenderer(width int) *lipgloss.Renderer {
	return lipgloss.NewRenderer(lipgloss.DefaultTheme(),
		lipgloss.WithLipglossRenderer(lipgloss.ColorRenderer(io.Discard)),
		lipgloss.WithWidth(width),
	)
}

func green(s string) gradeview.ColorSpan { return gradeview.ColorSpan{Text: s, Color: gradeview.ColorGreen} }
func red(s string) gradeview.ColorSpan   { return gradeview.ColorSpan{Text: s, Color: gradeview.ColorRed} }

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		width    int
		expected []gradeview.ColorSpan
		actual   []gradeview.ColorSpan
		want     string
	}{
		{
			name:     "wrong value",
			width:    10,
			expected: []gradeview.ColorSpan{red("4"), green("\n")},
			actual:   []gradeview.ColorSpan{red("5"), green("\n")},
			want: "^4$" + strings.Repeat(" ", 11) + "^5$\n" +
				"^$" + strings.Repeat(" ", 12) + "^$\n",
		},
		{
			name:     "actual has more lines",
			width:    5,
			expected: []gradeview.ColorSpan{green("4\n")},
			actual:   []gradeview.ColorSpan{green("4\n"), {Text: "5\n", Color: gradeview.ColorYellow}},
			want: "^4$      ^4$\n" +
				"^$       ^5$\n" +
				"^$       ^$\n",
		},
		{
			name:     "expected has more lines",
			width:    3,
			expected: []gradeview.ColorSpan{green("1\n"), {Text: "2\n3\n"}},
			actual:   []gradeview.ColorSpan{green("1\n")},
			want: "^1$    ^1$\n" +
				"^2$    ^$\n" +
				"^3$    ^$\n" +
				"^$     ^$\n",
		},
		{
			name:     "wraps long lines",
			width:    3,
			expected: []gradeview.ColorSpan{{Text: "abcdefgh"}},
			actual:   []gradeview.ColorSpan{{Text: "ab"}},
			want: "^abc$  ^ab$\n" +
				"^def$  ^$\n" +
				"^gh$   ^$\n",
		},
		{
			name:     "no wrapping pads to widest expected line",
			width:    0,
			expected: []gradeview.ColorSpan{{Text: "a\tb"}},
			actual:   []gradeview.ColorSpan{{Text: "x"}},
			want:     "^a       b$  ^x$\n",
		},
		{
			name:     "tab stops restart after a wrap",
			width:    10,
			expected: []gradeview.ColorSpan{{Text: "abcdefghijkl\tx"}},
			want: "^abcdefghij$  ^$\n" +
				"^kl      x$   ^$\n",
		},
		{
			name:     "tab crossing the wrap point fills the fragment",
			width:    4,
			expected: []gradeview.ColorSpan{{Text: "ab\tc"}},
			want: "^ab  $  ^$\n" +
				"^c$     ^$\n",
		},
		{
			name:     "control characters are escaped",
			width:    0,
			expected: []gradeview.ColorSpan{{Text: "a\r"}},
			want:     "^a\\r$  ^$\n",
		},
		{
			name:  "both sides empty",
			width: 4,
			want:  "^$" + strings.Repeat(" ", 6) + "^$\n",
		},
		{
			name:     "wide runes wrap by display width",
			width:    3,
			expected: []gradeview.ColorSpan{{Text: "日本"}},
			want: "^日$   ^$\n" +
				"^本$   ^$\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := plainRenderer(tt.width).Render(tt.expected, tt.actual)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_Render_ColorMarkersAreZeroWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected []gradeview.ColorSpan
		actual   []gradeview.ColorSpan
	}{
		{
			name:     "replace",
			expected: []gradeview.ColorSpan{red("4"), green("\n")},
			actual:   []gradeview.ColorSpan{red("5"), green("\n")},
		},
		{
			name:     "colored span longer than width",
			expected: []gradeview.ColorSpan{red("abcdefghijkl\n")},
			actual:   []gradeview.ColorSpan{green("abc"), {Text: "def", Color: gradeview.ColorYellow}, red("ghijkl")},
		},
		{
			name:     "color change inside a wrapped fragment",
			expected: []gradeview.ColorSpan{green("ab"), red("cd"), {Text: "ef"}},
			actual:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			colored := colorRenderer(4).Render(tt.expected, tt.actual)
			plain := plainRenderer(4).Render(tt.expected, tt.actual)

			assert.Contains(t, colored, "\x1b[", "color renderer should emit escape sequences")
			assert.Equal(t, plain, lipgloss.Strip(colored))
		})
	}
}

func TestRenderer_Render_Golden(t *testing.T) {
	t.Parallel()

	alignment, err := lcs.NewAligner().Align("Hello\nWorld\n", "Hello\nWorld!\nextra\n")
	require.NoError(t, err)
	result := gradeview.ExecutionResult{Stdout: alignment.Actual, ExitStatus: gradeview.Exited(0)}
	c := verdict.NewClassifier().Classify(result, alignment)
	require.Equal(t, gradeview.VerdictPassed, c.Verdict)

	got := plainRenderer(8).Render(c.Expected, c.Actual)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "extra_line", []byte(got))
}

func TestRenderer_Verdict(t *testing.T) {
	t.Parallel()

	r := plainRenderer(lipgloss.DefaultWidth)

	assert.Equal(t, "PERFECT     ", r.Verdict(gradeview.VerdictPerfect))
	assert.Equal(t, "TIMEOUT     ", r.Verdict(gradeview.VerdictTimeout))
}

func TestStrip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", lipgloss.Strip("\x1b[38;2;255;0;0mplain\x1b[0m"))
	assert.Equal(t, "plain", lipgloss.Strip("plain"))
}
