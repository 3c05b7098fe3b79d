package tui

import (
	"fmt"

	"agentdesk/internal/app"
	"agentdesk/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the central Bubble Tea model that dispatches to screen models.
type Model struct {
	app    *app.App
	styles theme.Styles
	keys   KeyMap
	help   HelpModel

	screen      Screen
	screenStack []Screen
	width       int
	height      int
	err         error
	status      string

	home         HomeScreen
	agentDetail  AgentDetailScreen
	settings     SettingsScreen
	channels     ChannelsScreen
	analytics    AnalyticsScreen
	roleplayMode RoleplayModeScreen
	personas     PersonasScreen
	callSetup    CallSetupScreen
	activeCall   ActiveCallScreen
	review       ReviewScreen
}

// NewModel creates the top-level TUI model with default styles and all screens.
func NewModel(a *app.App) Model {
	styles := theme.DefaultStyles()
	keys := DefaultKeyMap()

	return Model{
		app:    a,
		styles: styles,
		keys:   keys,
		help:   NewHelpModel(keys, styles),
		screen: ScreenHome,

		home:         NewHomeScreen(a, styles),
		agentDetail:  NewAgentDetailScreen(a, styles),
		settings:     NewSettingsScreen(a, styles),
		channels:     NewChannelsScreen(a, styles),
		analytics:    NewAnalyticsScreen(a, styles),
		roleplayMode: NewRoleplayModeScreen(a, styles),
		personas:     NewPersonasScreen(a, styles),
		callSetup:    NewCallSetupScreen(a, styles),
		activeCall:   NewActiveCallScreen(a, styles),
		review:       NewReviewScreen(a, styles),
	}
}

// Init returns the initial command: enter alt screen and load the home screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.home.init(),
	)
}

// Update handles all incoming messages by routing to the active screen
// and processing global keys and navigation messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Forward WindowSizeMsg to the active screen so screens that
		// store their own dimensions stay in sync.
		if cmd := m.updateActiveScreen(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		// Help overlay intercepts ? regardless of screen.
		if msg.String() == "?" {
			m.help.Toggle()
			return m, nil
		}

		// If help is visible, consume all other keys to dismiss.
		if m.help.Visible() {
			m.help.Toggle()
			return m, nil
		}

		// Global quit: ctrl+c always quits. The active-call screen is
		// torn down first so its session timer cannot leak.
		if msg.String() == "ctrl+c" {
			m.teardownActive()
			return m, tea.Quit
		}

		// q quits only from the home screen to avoid accidental exits.
		if msg.String() == "q" && m.screen == ScreenHome {
			return m, tea.Quit
		}

		// esc is handled per-screen: text inputs need it, and the call
		// screens use it as a teardown path. Screens that want to go
		// back send NavigateBackMsg.

	case NavigateMsg:
		m.teardownActive()
		switch {
		case msg.Screen == ScreenAgentDetail:
			// Agent detail is a hub: arriving there (e.g. after a call
			// review) collapses the back stack so esc leads home, not
			// back through the finished call flow.
			m.screenStack = []Screen{ScreenHome}
		case m.screen == ScreenActiveCall || m.screen == ScreenReview:
			// The call flow's terminal screens never become back targets:
			// once left, the session is torn down and the recording's fate
			// is decided, so esc must not land on them again.
		default:
			m.screenStack = append(m.screenStack, m.screen)
		}
		m.screen = msg.Screen
		m.err = nil
		m.status = ""
		if cmd := m.initScreen(msg.Screen, msg.Data); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case NavigateBackMsg:
		m.teardownActive()
		m.err = nil
		m.status = ""
		if len(m.screenStack) > 0 {
			prev := m.screenStack[len(m.screenStack)-1]
			m.screenStack = m.screenStack[:len(m.screenStack)-1]
			m.screen = prev
			cmds = append(cmds, m.initScreen(prev, nil))
		} else {
			m.screen = ScreenHome
			cmds = append(cmds, m.home.init())
		}
		return m, tea.Batch(cmds...)

	case ErrorMsg:
		m.err = msg.Err
		// Screens also see the error so they can clear in-flight flags.
		if cmd := m.updateActiveScreen(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case StatusMsg:
		m.status = string(msg)
		if cmd := m.updateActiveScreen(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Delegate to the active screen.
	if cmd := m.updateActiveScreen(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the active screen with an optional help overlay and status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Reserve 1 line for the status bar.
	contentHeight := m.height - 1

	content := m.viewActiveScreen(m.width, contentHeight)
	statusBar := m.renderStatusBar()

	view := lipgloss.JoinVertical(lipgloss.Left, content, statusBar)

	if m.help.Visible() {
		return m.help.View(m.width, m.height)
	}

	return view
}

// teardownActive releases resources owned by the departing screen. The
// active-call screen owns a session timer that must stop on every exit path.
func (m *Model) teardownActive() {
	if m.screen == ScreenActiveCall {
		m.activeCall.teardown()
	}
}

// initScreen sends the appropriate initialization command when navigating
// to a new screen.
func (m *Model) initScreen(screen Screen, data any) tea.Cmd {
	switch screen {
	case ScreenHome:
		return m.home.init()
	case ScreenAgentDetail:
		if id, ok := data.(string); ok {
			return m.agentDetail.SetAgentID(id)
		}
		return m.agentDetail.Reload()
	case ScreenSettings:
		if id, ok := data.(string); ok {
			return m.settings.SetAgentID(id)
		}
		return nil
	case ScreenChannels:
		if id, ok := data.(string); ok {
			return m.channels.SetAgentID(id)
		}
		return nil
	case ScreenAnalytics:
		if id, ok := data.(string); ok {
			m.analytics.SetAgentID(id)
		}
		return nil
	case ScreenRoleplayMode:
		if id, ok := data.(string); ok {
			m.roleplayMode.SetAgentID(id)
		}
		return nil
	case ScreenPersonas:
		if id, ok := data.(string); ok {
			m.personas.SetAgentID(id)
		}
		return nil
	case ScreenCallSetup:
		switch d := data.(type) {
		case string:
			return m.callSetup.Set(d, "")
		case callSetupData:
			return m.callSetup.Set(d.AgentID, d.PersonaID)
		}
		return nil
	case ScreenActiveCall:
		if start, ok := data.(callStartData); ok {
			return m.activeCall.Start(start)
		}
		return nil
	case ScreenReview:
		if rd, ok := data.(reviewData); ok {
			m.review.SetRecording(rd)
		}
		return nil
	default:
		return nil
	}
}

// updateActiveScreen delegates Update to whichever screen is active.
func (m *Model) updateActiveScreen(msg tea.Msg) tea.Cmd {
	switch m.screen {
	case ScreenHome:
		return m.home.Update(msg)
	case ScreenAgentDetail:
		return m.agentDetail.Update(msg)
	case ScreenSettings:
		return m.settings.Update(msg)
	case ScreenChannels:
		return m.channels.Update(msg)
	case ScreenAnalytics:
		return m.analytics.Update(msg)
	case ScreenRoleplayMode:
		return m.roleplayMode.Update(msg)
	case ScreenPersonas:
		return m.personas.Update(msg)
	case ScreenCallSetup:
		return m.callSetup.Update(msg)
	case ScreenActiveCall:
		return m.activeCall.Update(msg)
	case ScreenReview:
		return m.review.Update(msg)
	default:
		return nil
	}
}

// viewActiveScreen delegates View to whichever screen is active.
func (m *Model) viewActiveScreen(width, height int) string {
	switch m.screen {
	case ScreenHome:
		return m.home.View(width, height)
	case ScreenAgentDetail:
		return m.agentDetail.View(width, height)
	case ScreenSettings:
		return m.settings.View(width, height)
	case ScreenChannels:
		return m.channels.View(width, height)
	case ScreenAnalytics:
		return m.analytics.View(width, height)
	case ScreenRoleplayMode:
		return m.roleplayMode.View(width, height)
	case ScreenPersonas:
		return m.personas.View(width, height)
	case ScreenCallSetup:
		return m.callSetup.View(width, height)
	case ScreenActiveCall:
		return m.activeCall.View(width, height)
	case ScreenReview:
		return m.review.View(width, height)
	default:
		return ""
	}
}

// renderStatusBar builds the single-line bar at the bottom of the viewport.
func (m *Model) renderStatusBar() string {
	var left string
	if m.err != nil {
		left = lipgloss.NewStyle().
			Foreground(theme.ColorAccent).
			Bold(true).
			Render(fmt.Sprintf(" Error: %s", m.err.Error()))
	} else if m.status != "" {
		left = lipgloss.NewStyle().
			Foreground(theme.ColorSuccess).
			Render(fmt.Sprintf(" %s", m.status))
	}

	right := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("? help ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	bar := lipgloss.JoinHorizontal(lipgloss.Top, left, spacer, right)

	return m.styles.StatusBar.Width(m.width).Render(bar)
}
