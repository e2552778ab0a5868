package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ASCII art for digits (5x5 characters each)
var clockGlyphs = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// clockText drops a zero hour field so short sessions read MM:SS.
func clockText(hhmmss string) string {
	if strings.HasPrefix(hhmmss, "00:") {
		return strings.TrimPrefix(hhmmss, "00:")
	}
	return hhmmss
}

// renderBigClock renders text such as "01:02:03" as large ASCII digits.
func renderBigClock(text string) string {
	var lines [5]strings.Builder

	for _, char := range text {
		glyph, ok := clockGlyphs[char]
		if !ok {
			continue
		}
		for i := 0; i < 5; i++ {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ") // Space between digits
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rendered := make([]string, 5)
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}
