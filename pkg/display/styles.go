package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Adaptive pairs keep output readable on light terminals.
var (
	headingColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#848484", Dark: "#626262"}
	patternColor = lipgloss.AdaptiveColor{Light: "#00695C", Dark: "#2BD4BD"}
	pathColor    = lipgloss.AdaptiveColor{Light: "#3B3B3B", Dark: "#DDDDDD"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(headingColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	patternStyle = lipgloss.NewStyle().
			Foreground(patternColor)

	pathStyle = lipgloss.NewStyle().
			Foreground(pathColor).
			Italic(true)
)

// indent prefixes every non-empty line of s with n levels of two spaces.
func indent(s string, n int) string {
	prefix := strings.Repeat("  ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
