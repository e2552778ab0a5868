package tui

import "github.com/charmbracelet/lipgloss"

// Color constants for the hourtree theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240" // Dark grey for help text

	// Accents (teal)
	ColorAccentMain   = "#0F9D8A" // Logo, clock, active borders
	ColorAccentBright = "#5EEAD4" // Highlights, selection

	// State
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(0, 1)
)

// helpBar renders the dim italic key hint line at the bottom of a screen.
func helpBar(width int, text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width).
		Render(text)
}
