package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxpilot/internal/tui/tuistyles"
)

// MetricCard displays a single figure with a label and an optional note
type MetricCard struct {
	Label     string
	Value     string
	Note      string
	Highlight bool // render the value in the success colour
	Width     int
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// WithNote adds a muted line under the value
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// Highlighted marks the card as the preferred outcome
func (m *MetricCard) Highlighted() *MetricCard {
	m.Highlight = true
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)

	valueStyle := tuistyles.MetricValueStyle
	if m.Highlight {
		valueStyle = tuistyles.HighlightValueStyle
	}
	content := label + "\n" + valueStyle.Render(m.Value)

	if m.Note != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Note)
	}

	border := tuistyles.ColorBorder
	if m.Highlight {
		border = tuistyles.ColorSuccess
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid renders cards in rows of the given number of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	rows := []string{}
	currentRow := []string{}

	for i, card := range cards {
		currentRow = append(currentRow, card.Render())

		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = []string{}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
