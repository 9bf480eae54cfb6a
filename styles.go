package gradeview

// ColorPair represents a foreground and background color combination.
// Colors should be hex strings in "#RRGGBB" format (e.g., "#ff0000" for red).
// Empty strings are valid and indicate no color override (use terminal default).
type ColorPair struct {
	Foreground string
	Background string
}

// Styles contains color pairs for all visual elements of a grading report.
type Styles struct {
	Match    ColorPair // Green: text present on both sides
	Extra    ColorPair // Yellow: non-blank text the program added
	Mismatch ColorPair // Red: text replaced by something else
	Marker   ColorPair // The ^ and $ delimiters around each fragment
	Header   ColorPair // Submission and exercise headings
	Accepted ColorPair // Verdicts that count as a correct answer
	Rejected ColorPair // Verdicts that do not
}

// ForColor returns the color pair used for a span color tag.
// ColorNone maps to the zero ColorPair.
func (s Styles) ForColor(c Color) ColorPair {
	switch c {
	case ColorGreen:
		return s.Match
	case ColorYellow:
		return s.Extra
	case ColorRed:
		return s.Mismatch
	default:
		return ColorPair{}
	}
}

// Palette holds the semantic colors used for syntax highlighting
// submission sources.
type Palette struct {
	Foreground  string
	Keyword     string
	String      string
	Number      string
	Comment     string
	Operator    string
	Function    string
	Type        string
	Constant    string
	Punctuation string
}

// Theme provides styles for rendering grading reports.
// Different implementations can provide light/dark variants.
type Theme interface {
	Styles() Styles
	Palette() Palette
}
