package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxpilot/internal/calculation"
	"github.com/rgehrsitz/taxpilot/internal/domain"
	"github.com/rgehrsitz/taxpilot/internal/tui/components"
	"github.com/rgehrsitz/taxpilot/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case SceneInput:
		content = m.renderInput()
	case SceneResults:
		content = m.renderResults()
	default:
		content = "Unknown scene"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		"",
		content,
		"",
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and current scene
func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("TAXPILOT - Tax Regime & Strategy")
	crumb := m.currentScene.String()
	if m.configPath != "" && m.config != nil {
		crumb += " / " + m.configPath
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(crumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	var shortcuts []string
	if m.currentScene == SceneResults {
		shortcuts = []string{formatShortcut("e", "edit income"), formatShortcut("q", "quit")}
	} else {
		shortcuts = []string{formatShortcut("enter", "analyze"), formatShortcut("esc", "quit")}
	}
	return tuistyles.StatusBarStyle.Render(strings.Join(shortcuts, " • "))
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return tuistyles.StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderInput() string {
	var b strings.Builder
	b.WriteString(m.income.View())
	if m.loading {
		b.WriteString("\n\n⠋ Calculating...")
	}
	if m.err != nil {
		b.WriteString("\n\n" + tuistyles.ErrorStyle.Render("Error: "+m.err.Error()))
	}
	return tuistyles.BorderStyle.Render(b.String())
}

func (m Model) renderResults() string {
	if m.comparison == nil || m.report == nil {
		return tuistyles.BorderStyle.Render("No results yet")
	}
	rc := m.comparison
	cur := m.money.Currency

	oldCard := components.NewMetricCard(calculation.RegimeLabel(rc.OldRegime.Regime), cur(rc.OldRegime.TotalTax))
	newCard := components.NewMetricCard(calculation.RegimeLabel(rc.NewRegime.Regime), cur(rc.NewRegime.TotalTax))
	if rc.Recommendation == calculation.OldRegimeLabel {
		oldCard.Highlighted().WithNote("recommended")
	} else {
		newCard.Highlighted().WithNote("recommended")
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("Income", cur(rc.Income)),
		oldCard,
		newCard,
		components.NewMetricCard("Regime Savings", cur(rc.PotentialSavings)),
		components.NewMetricCard("Strategy Savings", cur(m.report.TotalPotentialSavings)).
			WithNote(fmt.Sprintf("confidence %d%%", m.report.ConfidenceScore)),
	}

	if top, ok := topAction(m.report.Items()); ok {
		cards = append(cards, components.NewMetricCard("Top Action", cur(top.PotentialSavings)).WithNote(top.Title))
	}

	columns := 3
	if m.width < 84 {
		columns = 2
	}

	var b strings.Builder
	b.WriteString(components.MetricGrid(cards, columns))
	b.WriteString("\n\n")
	for _, cat := range m.report.Recommendations {
		b.WriteString(tuistyles.MetricLabelStyle.Render(cat.Category) + "\n")
		for _, item := range cat.Items {
			impact := tuistyles.ImpactStyle(string(item.Impact)).Render(string(item.Impact))
			b.WriteString(fmt.Sprintf("  • %s %s %s\n", item.Title, impact, cur(item.PotentialSavings)))
		}
	}
	for _, in := range m.report.Insights {
		b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%s: %s", in.Title, in.Insight)) + "\n")
	}
	return b.String()
}

// topAction returns the recommendation with the largest savings; the
// earliest wins a tie.
func topAction(items []domain.Recommendation) (domain.Recommendation, bool) {
	if len(items) == 0 {
		return domain.Recommendation{}, false
	}
	top := items[0]
	for _, item := range items[1:] {
		if item.PotentialSavings.GreaterThan(top.PotentialSavings) {
			top = item
		}
	}
	return top, true
}
