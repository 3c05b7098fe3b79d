package tui

import (
	"fmt"
	"strings"

	"agentdesk/internal/analytics"
	"agentdesk/internal/app"
	"agentdesk/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AnalyticsScreen draws the simulated per-agent call activity chart.
type AnalyticsScreen struct {
	app    *app.App
	styles theme.Styles

	agentID string
	days    int
	series  []analytics.Point
}

// NewAnalyticsScreen creates the analytics screen.
func NewAnalyticsScreen(a *app.App, styles theme.Styles) AnalyticsScreen {
	return AnalyticsScreen{app: a, styles: styles, days: 14}
}

// SetAgentID points the chart at an agent. The series is deterministic per
// agent so the chart is stable across visits.
func (a *AnalyticsScreen) SetAgentID(id string) {
	a.agentID = id
	a.regenerate()
}

func (a *AnalyticsScreen) regenerate() {
	a.series = analytics.Series(a.days, analytics.SeedFor(a.agentID))
}

// Update handles messages for the analytics screen.
func (a *AnalyticsScreen) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return func() tea.Msg { return NavigateBackMsg{} }
		case "7":
			a.days = 7
			a.regenerate()
		case "2":
			a.days = 14
			a.regenerate()
		case "3":
			a.days = 30
			a.regenerate()
		}
	}
	return nil
}

// View renders the bar chart and summary line.
func (a *AnalyticsScreen) View(width, height int) string {
	header := a.styles.Header.Width(width).Render(
		fmt.Sprintf("Analytics — last %d days", a.days))

	maxCalls := analytics.MaxCalls(a.series)
	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	var rows []string
	var totalCalls, totalResolved, totalEscalated int
	var totalMinutes float64
	for _, p := range a.series {
		totalCalls += p.Calls
		totalResolved += p.Resolved
		totalEscalated += p.Escalated
		totalMinutes += p.Minutes

		n := p.Calls * barWidth / maxCalls
		bar := lipgloss.NewStyle().Foreground(theme.ColorPrimary).
			Render(strings.Repeat("█", n))
		rows = append(rows, fmt.Sprintf("%s %3d %s",
			p.Day.Format("Jan 02"), p.Calls, bar))
	}

	resolvedPct := 0.0
	if totalCalls > 0 {
		resolvedPct = float64(totalResolved) / float64(totalCalls) * 100
	}
	summary := lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(
		fmt.Sprintf("%d calls · %.0f minutes · %.0f%% resolved · %d escalated",
			totalCalls, totalMinutes, resolvedPct, totalEscalated))

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("7/2/3 range (7, 14, 30 days) · esc back")

	sections := []string{header, ""}
	sections = append(sections, rows...)
	sections = append(sections, "", summary, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
