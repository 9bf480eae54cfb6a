// Package lipgloss renders grading reports using the Lipgloss styling library.
package lipgloss

import "github.com/fwojciec/gradeview"

// Compile-time interface verification.
var _ gradeview.Theme = (*Theme)(nil)

// Theme implements gradeview.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles  gradeview.Styles
	palette gradeview.Palette
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() gradeview.Styles {
	return t.styles
}

// Palette returns the syntax highlighting palette for this theme.
func (t *Theme) Palette() gradeview.Palette {
	return t.palette
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		styles: gradeview.Styles{
			Match:    gradeview.ColorPair{Foreground: "#a6e3a1"}, // Green
			Extra:    gradeview.ColorPair{Foreground: "#f9e2af"}, // Yellow
			Mismatch: gradeview.ColorPair{Foreground: "#f38ba8"}, // Red
			Marker:   gradeview.ColorPair{Foreground: "#6c7086"}, // Muted gray
			Header: gradeview.ColorPair{
				Foreground: "#89b4fa", // Blue
				Background: "#313244", // Dark surface
			},
			Accepted: gradeview.ColorPair{Foreground: "#a6e3a1"},
			Rejected: gradeview.ColorPair{Foreground: "#f38ba8"},
		},
		palette: gradeview.Palette{
			// Catppuccin Mocha
			Foreground:  "#cdd6f4",
			Keyword:     "#cba6f7",
			String:      "#a6e3a1",
			Number:      "#fab387",
			Comment:     "#6c7086",
			Operator:    "#89dceb",
			Function:    "#89b4fa",
			Type:        "#f9e2af",
			Constant:    "#fab387",
			Punctuation: "#9399b2",
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		styles: gradeview.Styles{
			Match:    gradeview.ColorPair{Foreground: "#40a02b"},
			Extra:    gradeview.ColorPair{Foreground: "#df8e1d"},
			Mismatch: gradeview.ColorPair{Foreground: "#d20f39"},
			Marker:   gradeview.ColorPair{Foreground: "#9ca0b0"},
			Header: gradeview.ColorPair{
				Foreground: "#1e66f5",
				Background: "#e6e9ef",
			},
			Accepted: gradeview.ColorPair{Foreground: "#40a02b"},
			Rejected: gradeview.ColorPair{Foreground: "#d20f39"},
		},
		palette: gradeview.Palette{
			// Catppuccin Latte
			Foreground:  "#4c4f69",
			Keyword:     "#8839ef",
			String:      "#40a02b",
			Number:      "#fe640b",
			Comment:     "#9ca0b0",
			Operator:    "#04a5e5",
			Function:    "#1e66f5",
			Type:        "#df8e1d",
			Constant:    "#fe640b",
			Punctuation: "#6c6f85",
		},
	}
}
