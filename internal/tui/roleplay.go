package tui

import (
	"agentdesk/internal/app"
	"agentdesk/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RoleplayModeScreen asks how the training session should run: against a
// persona or as a simulated outbound call.
type RoleplayModeScreen struct {
	app    *app.App
	styles theme.Styles

	agentID string
	cursor  int
}

// NewRoleplayModeScreen creates the mode selector.
func NewRoleplayModeScreen(a *app.App, styles theme.Styles) RoleplayModeScreen {
	return RoleplayModeScreen{app: a, styles: styles}
}

// SetAgentID points the selector at an agent.
func (r *RoleplayModeScreen) SetAgentID(id string) {
	r.agentID = id
	r.cursor = 0
}

// Update handles messages for the mode selector.
func (r *RoleplayModeScreen) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return func() tea.Msg { return NavigateBackMsg{} }
		case "up", "k", "down", "j", "tab":
			r.cursor = 1 - r.cursor
		case "enter":
			id := r.agentID
			if r.cursor == 0 {
				return func() tea.Msg {
					return NavigateMsg{Screen: ScreenPersonas, Data: id}
				}
			}
			return func() tea.Msg {
				return NavigateMsg{Screen: ScreenCallSetup, Data: id}
			}
		}
	}
	return nil
}

// View renders the two mode cards.
func (r *RoleplayModeScreen) View(width, height int) string {
	header := r.styles.Header.Width(width).Render("Start a training session")

	options := []struct {
		title string
		desc  string
	}{
		{"Role-play with a persona", "Practice against a scripted partner with a scenario and goals."},
		{"Simulated phone call", "Dial a number and run a free-form call against the simulator."},
	}

	var cards []string
	for i, o := range options {
		style := r.styles.Panel
		if i == r.cursor {
			style = r.styles.PanelFocused
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(o.title),
			lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(o.desc))
		cards = append(cards, style.Width(min(width-4, 64)).Render(body))
	}

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("enter select · esc back")

	sections := []string{header, ""}
	sections = append(sections, cards...)
	sections = append(sections, "", footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
