package tui

import (
	"context"
	"fmt"
	"strings"

	"agentdesk/internal/app"
	"agentdesk/internal/db"
	"agentdesk/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// HomeScreen lists all agents with a filter box and creates new drafts.
type HomeScreen struct {
	app    *app.App
	styles theme.Styles

	search  textinput.Model
	agents  []db.Agent
	cursor  int
	loading bool
	confirm bool // pending delete confirmation for the selected agent
	width   int
	height  int
}

// NewHomeScreen creates the home screen.
func NewHomeScreen(a *app.App, styles theme.Styles) HomeScreen {
	search := textinput.New()
	search.Placeholder = "Filter agents..."
	search.Prompt = "/ "
	search.CharLimit = 64

	return HomeScreen{
		app:    a,
		styles: styles,
		search: search,
	}
}

// init triggers an agent list load.
func (h *HomeScreen) init() tea.Cmd {
	h.loading = true
	h.confirm = false
	return h.loadAgents()
}

func (h *HomeScreen) loadAgents() tea.Cmd {
	query := h.search.Value()
	store := h.app.DB()
	return func() tea.Msg {
		agents, err := store.ListAgents(context.Background(), db.AgentFilter{Query: query})
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return AgentsLoadedMsg{Agents: agents}
	}
}

func (h *HomeScreen) createAgent() tea.Cmd {
	store := h.app.DB()
	n := len(h.agents) + 1
	return func() tea.Msg {
		a, err := store.CreateAgent(context.Background(), db.Agent{
			Name:  fmt.Sprintf("Untitled agent %d", n),
			Model: "gpt-4o-mini",
		})
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return NavigateMsg{Screen: ScreenAgentDetail, Data: a.ID}
	}
}

func (h *HomeScreen) deleteSelected() tea.Cmd {
	if h.cursor >= len(h.agents) {
		return nil
	}
	store := h.app.DB()
	id := h.agents[h.cursor].ID
	name := h.agents[h.cursor].Name
	return func() tea.Msg {
		if err := store.DeleteAgent(context.Background(), id); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg(fmt.Sprintf("Deleted %s", name))
	}
}

// Update handles messages for the home screen.
func (h *HomeScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		return nil

	case AgentsLoadedMsg:
		h.loading = false
		h.agents = msg.Agents
		if h.cursor >= len(h.agents) {
			h.cursor = max(0, len(h.agents)-1)
		}
		return nil

	case StatusMsg:
		// A delete just completed; the main model shows the notice.
		return h.loadAgents()

	case tea.KeyMsg:
		if h.search.Focused() {
			switch msg.String() {
			case "esc":
				h.search.Blur()
				h.search.SetValue("")
				return h.loadAgents()
			case "enter":
				h.search.Blur()
				return nil
			default:
				var cmd tea.Cmd
				h.search, cmd = h.search.Update(msg)
				return tea.Batch(cmd, h.loadAgents())
			}
		}

		if h.confirm {
			switch msg.String() {
			case "y", "Y":
				h.confirm = false
				return h.deleteSelected()
			default:
				h.confirm = false
				return nil
			}
		}

		switch msg.String() {
		case "/":
			h.search.Focus()
			return textinput.Blink
		case "up", "k":
			if h.cursor > 0 {
				h.cursor--
			}
		case "down", "j":
			if h.cursor < len(h.agents)-1 {
				h.cursor++
			}
		case "n":
			return h.createAgent()
		case "r":
			return h.loadAgents()
		case "d":
			if len(h.agents) > 0 {
				h.confirm = true
			}
		case "enter":
			if h.cursor < len(h.agents) {
				id := h.agents[h.cursor].ID
				h.app.State().LastAgentID = id
				return func() tea.Msg {
					return NavigateMsg{Screen: ScreenAgentDetail, Data: id}
				}
			}
		}
	}
	return nil
}

// View renders the agent list.
func (h *HomeScreen) View(width, height int) string {
	header := h.styles.Header.Width(width).Render("agentdesk — Agents")

	searchLine := h.search.View()
	if h.search.Focused() {
		searchLine = h.styles.InputFocused.Render(searchLine)
	} else {
		searchLine = h.styles.Input.Render(searchLine)
	}

	var body []string
	switch {
	case h.loading:
		body = append(body, h.styles.ListItem.Render("Loading agents..."))
	case len(h.agents) == 0 && h.search.Value() != "":
		body = append(body, h.styles.ListItem.Render("No agents match the filter."))
	case len(h.agents) == 0:
		body = append(body, h.styles.ListItem.Render("No agents yet. Press n to create one."))
	default:
		for i, a := range h.agents {
			body = append(body, h.renderAgentRow(a, i == h.cursor, width))
		}
	}

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("enter open · n new · d delete · / filter · r refresh · q quit")
	if h.confirm && h.cursor < len(h.agents) {
		footer = h.styles.FieldError.Render(
			fmt.Sprintf("Delete %q and all its recordings? y/N", h.agents[h.cursor].Name))
	}

	sections := []string{header, "", searchLine, ""}
	sections = append(sections, body...)
	sections = append(sections, "", footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (h *HomeScreen) renderAgentRow(a db.Agent, selected bool, width int) string {
	badge := statusBadge(h.styles, a.Status)

	name := a.Name
	if name == "" {
		name = "(unnamed)"
	}

	meta := fmt.Sprintf("%s · updated %s", a.Model, humanize.Time(a.UpdatedAt))
	if a.Model == "" {
		meta = fmt.Sprintf("updated %s", humanize.Time(a.UpdatedAt))
	}

	line := fmt.Sprintf("%-30s %s  %s", truncate(name, 30), badge,
		lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(meta))

	if selected {
		return h.styles.ListItemSelected.Width(width - 2).Render(line)
	}
	return h.styles.ListItem.Render(line)
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
