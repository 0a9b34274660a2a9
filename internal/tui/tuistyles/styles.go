// Package tuistyles holds the shared lipgloss palette so that components
// and the top-level model can both use it without an import cycle.
package tuistyles

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorSecondary = lipgloss.Color("#43BF6D")
	ColorAccent    = lipgloss.Color("#F25D94")
	ColorSuccess   = lipgloss.Color("#04B575")
	ColorDanger    = lipgloss.Color("#FF5F87")

	ColorForeground = lipgloss.Color("#FAFAFA")
	ColorMuted      = lipgloss.Color("#626262")
	ColorBorder     = lipgloss.Color("#3C3C3C")
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	HighlightValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	ImpactHighStyle   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	ImpactMediumStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
)

// ImpactStyle picks the style for a recommendation impact label
func ImpactStyle(impact string) lipgloss.Style {
	if impact == "High" {
		return ImpactHighStyle
	}
	return ImpactMediumStyle
}
