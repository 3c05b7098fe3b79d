package tui

import (
	"fmt"
	"strings"

	"agentdesk/internal/app"
	"agentdesk/internal/catalog"
	"agentdesk/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PersonasScreen lists the role-play partner catalog with a detail pane.
type PersonasScreen struct {
	app    *app.App
	styles theme.Styles

	agentID  string
	personas []catalog.Persona
	cursor   int
}

// NewPersonasScreen creates the persona picker.
func NewPersonasScreen(a *app.App, styles theme.Styles) PersonasScreen {
	return PersonasScreen{
		app:      a,
		styles:   styles,
		personas: catalog.Personas(),
	}
}

// SetAgentID points the picker at an agent.
func (p *PersonasScreen) SetAgentID(id string) {
	p.agentID = id
	p.cursor = 0
}

// Update handles messages for the persona picker.
func (p *PersonasScreen) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return func() tea.Msg { return NavigateBackMsg{} }
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.personas)-1 {
				p.cursor++
			}
		case "enter":
			if p.cursor < len(p.personas) {
				data := callSetupData{
					AgentID:   p.agentID,
					PersonaID: p.personas[p.cursor].ID,
				}
				return func() tea.Msg {
					return NavigateMsg{Screen: ScreenCallSetup, Data: data}
				}
			}
		}
	}
	return nil
}

// View renders the persona list next to the selected persona's details.
func (p *PersonasScreen) View(width, height int) string {
	header := p.styles.Header.Width(width).Render("Choose a persona")

	var rows []string
	for i, persona := range p.personas {
		line := fmt.Sprintf("%-16s %s", truncate(persona.Name, 16),
			p.kindBadge(persona.Kind))
		if i == p.cursor {
			rows = append(rows, p.styles.ListItemSelected.Render(line))
		} else {
			rows = append(rows, p.styles.ListItem.Render(line))
		}
	}
	list := lipgloss.JoinVertical(lipgloss.Left, rows...)

	detail := ""
	if p.cursor < len(p.personas) {
		detail = p.renderDetail(p.personas[p.cursor], width-34)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail)

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("enter start setup · esc back")

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
}

func (p *PersonasScreen) kindBadge(kind catalog.PersonaKind) string {
	switch kind {
	case catalog.PersonaAgent:
		return p.styles.BadgeDraft.Render("AGENT")
	case catalog.PersonaBot:
		return p.styles.BadgePaused.Render("BOT")
	default:
		return p.styles.BadgeActive.Render("CUSTOMER")
	}
}

func (p *PersonasScreen) renderDetail(persona catalog.Persona, width int) string {
	if width < 30 {
		width = 30
	}

	label := p.styles.FieldLabel
	secondary := lipgloss.NewStyle().Foreground(theme.ColorTextSecondary)

	var lines []string
	lines = append(lines,
		lipgloss.NewStyle().Bold(true).Render(persona.Name),
		secondary.Render(persona.Description),
		"",
		label.Render("Scenario"),
		secondary.Render(persona.Scenario),
		"",
		label.Render("Background"),
		secondary.Render(persona.Background),
		"",
		label.Render("Communication style"),
		secondary.Render(persona.CommStyle),
	)

	if len(persona.PainPoints) > 0 {
		lines = append(lines, "", label.Render("Pain points"))
		for _, pp := range persona.PainPoints {
			lines = append(lines, secondary.Render("• "+pp))
		}
	}

	lines = append(lines, "",
		label.Render("Opens with"),
		secondary.Italic(true).Render("“"+persona.Greeting+"”"))

	return p.styles.Panel.Width(width).Render(strings.Join(lines, "\n"))
}
